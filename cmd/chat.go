package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/careerkitsune/careerkitsune-ai/internal/dialogue"
	"github.com/careerkitsune/careerkitsune-ai/internal/intent"
	"github.com/careerkitsune/careerkitsune-ai/internal/logger"
	"github.com/careerkitsune/careerkitsune-ai/internal/voice"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	commandQuit   = "/quit"
	commandListen = "/listen"
	commandStop   = "/stop"

	PromptConfirm = "Yes, proceed"
	PromptCancel  = "Cancel"
)

var (
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	replyStyle     = lipgloss.NewStyle().PaddingLeft(2)
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal",
	Long: `Talk to the assistant in the terminal.

Type /listen to switch to audio input (each line is then a path to a recording),
/stop to switch back to typing and /quit to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("user", "u", "", "user id to act as; empty means not logged in")
	chatCmd.Flags().String("voice-in", "", "transcribe this recording and use it as the first utterance")
	chatCmd.Flags().Bool("speak", false, "synthesize every reply into a wav file")
	chatCmd.Flags().String("audio-dir", os.TempDir(), "where spoken replies are written")

	viper.BindPFlag("assistant.user-id", chatCmd.Flags().Lookup("user"))
}

type chat struct {
	assistant   *dialogue.Assistant
	session     *dialogue.Session
	userID      string
	transcriber voice.Transcriber
	speaker     voice.Speaker
	listener    *voice.Listener
	audioDir    string
	out         io.Writer
	logger      *zap.Logger
	spoken      int
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	repo, err := openRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the backend", zap.Error(err), zap.String("backend", config.Backend))
	}
	defer repo.Close()

	c := &chat{
		assistant: newAssistant(repo, config, logger),
		session:   dialogue.NewSession(uuid.NewString()),
		userID:    config.Assistant.UserID,
		listener:  voice.NewListener(logger),
		audioDir:  cmd.Flag("audio-dir").Value.String(),
		out:       cmd.OutOrStdout(),
		logger:    logger,
	}

	speech, err := newVoice(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the voice client", zap.Error(err))
	}
	if speech != nil {
		c.transcriber = speech
		if speak, _ := cmd.Flags().GetBool("speak"); speak {
			c.speaker = speech
		}
	}

	logger.Info("starting a chat", zap.String("session_id", c.session.ID), zap.Bool("logged_in", c.userID != ""), zap.String("version", version))

	if path := cmd.Flag("voice-in").Value.String(); path != "" {
		text, err := c.transcribe(ctx, path)
		if err != nil {
			return err
		}
		if err := c.turn(ctx, text); err != nil {
			return err
		}
	}

	return c.loop(ctx)
}

func (c *chat) loop(ctx context.Context) error {
	for ctx.Err() == nil {
		label := "you"
		if c.listener.Listening() {
			label = "recording"
		}
		input, err := (&promptui.Prompt{Label: label}).Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		switch input {
		case commandQuit:
			return nil
		case commandListen:
			if c.transcriber == nil {
				c.note("voice is disabled; set voice.enabled in the config")
				continue
			}
			if c.listener.Start() {
				c.note("listening: enter the path of a recording")
			}
			continue
		case commandStop:
			if c.listener.Stop() {
				c.note("stopped listening")
			}
			continue
		}

		utterance := input
		if c.listener.Listening() {
			utterance, err = c.transcribe(ctx, input)
			if err != nil {
				c.note(err.Error())
				continue
			}
		}
		if err := c.turn(ctx, utterance); err != nil {
			return err
		}
	}
	return nil
}

// turn sends one utterance and offers the confirmation shortcut when the
// assistant is waiting for one.
func (c *chat) turn(ctx context.Context, utterance string) error {
	reply := c.assistant.Handle(ctx, c.session, utterance, c.userID)
	c.say(ctx, reply)

	if c.session.Pending == nil {
		return nil
	}
	_, choice, err := (&promptui.Select{
		Label: "Submit this application?",
		Items: []string{PromptConfirm, PromptCancel},
	}).Run()
	if err != nil {
		return err
	}
	if choice == PromptConfirm {
		return c.turn(ctx, intent.ConfirmPhrase)
	}
	c.session.Pending = nil
	c.note("application not submitted")
	return nil
}

func (c *chat) say(ctx context.Context, reply string) {
	fmt.Fprintln(c.out, assistantStyle.Render("CareerKitsune")+"\n"+replyStyle.Render(reply))

	if c.speaker == nil {
		return
	}
	path, err := c.speak(ctx, reply)
	if err != nil {
		c.logger.Warn("speaking the reply failed", zap.Error(err))
		return
	}
	c.note("audio: " + path)
}

func (c *chat) speak(ctx context.Context, reply string) (string, error) {
	wav, err := c.speaker.Speak(ctx, reply)
	if err != nil {
		return "", err
	}
	c.spoken++
	path := filepath.Join(c.audioDir, fmt.Sprintf("%s-%s-%03d.wav", app, c.session.ID[:8], c.spoken))
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return "", fmt.Errorf("writing reply audio: %w", err)
	}
	return path, nil
}

func (c *chat) transcribe(ctx context.Context, path string) (string, error) {
	if c.transcriber == nil {
		return "", errors.New("voice is disabled; set voice.enabled in the config")
	}
	mimeType, ok := voice.MIMEType(path)
	if !ok {
		return "", fmt.Errorf("unsupported audio file %q", path)
	}
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading recording: %w", err)
	}
	text, err := c.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", err
	}
	c.note("heard: " + text)
	return text, nil
}

func (c *chat) note(msg string) {
	fmt.Fprintln(c.out, noteStyle.Render(msg))
}
