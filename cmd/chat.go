package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/app"
	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/learner"
	"github.com/abhisek/bitlit/internal/prompt"
	"github.com/abhisek/bitlit/internal/tutor"
)

// DefaultTerminalLearner is the learner id the terminal chat uses when
// --learner is not given.
const DefaultTerminalLearner = "local"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the tutor in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func addChatFlags(c *cobra.Command) {
	c.Flags().String("learner", DefaultTerminalLearner, "Learner id whose progress is used")
	c.Flags().String("server", "", "Base URL of a running bitlit server (default: call the LLM directly)")
	c.Flags().String("lang", "", "Language: en or es (default: the learner's saved language)")
	c.Flags().String("mode", "", "Tutor mode: socratic, teacher, voice or curriculum")
	c.Flags().String("log-file", "", "Log file (default: bitlit.log next to the database)")
}

// runChat opens the store, builds dependencies, and launches the TUI.
func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(func() (string, error) { return resolveDBPath(cmd) })
	if err != nil {
		return err
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" && cfg.DBDriver == "sqlite" {
		logPath = filepath.Join(filepath.Dir(cfg.DBPath), "bitlit.log")
	}
	if logPath == "" {
		logPath = "bitlit.log"
	}
	logger, err := newLogger(cmd, logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := app.Options{Logger: logger.Named("app")}
	opts.LearnerID, _ = cmd.Flags().GetString("learner")
	if s, _ := cmd.Flags().GetString("lang"); s != "" {
		lang, ok := i18n.ParseLanguage(s)
		if !ok {
			return fmt.Errorf("unsupported language %q", s)
		}
		opts.Language = lang
	}
	if s, _ := cmd.Flags().GetString("mode"); s != "" {
		mode, ok := prompt.ParseMode(s)
		if !ok {
			return fmt.Errorf("unknown mode %q", s)
		}
		opts.Mode = mode
	}

	st, snapshots, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var transport tutor.Transport
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		logger.Info("using remote tutor", zap.String("server", server))
		transport = tutor.NewHTTPTransport(server, nil)
	} else {
		svc, err := newChatService(ctx, st.EventRepo(), logger.Named("llm"))
		if err != nil {
			return err
		}
		transport = tutor.NewLocalTransport(svc)
	}

	opts.Registry = learner.NewRegistry(snapshots, transport,
		learner.WithLogger(logger.Named("learner")),
		learner.WithSnapshotKeep(cfg.SnapshotKeep),
	)
	return app.Run(ctx, opts)
}

func init() {
	addChatFlags(chatCmd)
}
