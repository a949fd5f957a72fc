// cmd/portal-cli/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"admission-portal/internal/common/config"
	apperrors "admission-portal/internal/common/errors"
	"admission-portal/internal/common/logger"
	"admission-portal/internal/common/observability"
	"admission-portal/internal/common/session"
	"admission-portal/internal/editors"
	"admission-portal/internal/engine"
	"admission-portal/internal/models"
	"admission-portal/internal/portal"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// consoleNavigator announces the confirmation transition after a final
// submission; in the CLI there is no page to move to.
type consoleNavigator struct{}

func (consoleNavigator) NavigateToConfirmation(applicationID string) {
	fmt.Printf("\nApplication %s submitted. A confirmation has been recorded with the portal.\n", applicationID)
}

// consoleNotifier renders notices on stderr and reads confirmations from
// stdin.
type consoleNotifier struct {
	in *bufio.Reader
}

func newConsoleNotifier() *consoleNotifier {
	return &consoleNotifier{in: bufio.NewReader(os.Stdin)}
}

func (c *consoleNotifier) Alert(n apperrors.Notice) {
	fmt.Fprintln(os.Stderr, n.Text())
}

func (c *consoleNotifier) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// draftInput is the applicant-facing draft file: section values and local
// document paths, applied through the section editors.
type draftInput struct {
	Personal   map[string]string            `json:"personal,omitempty"`
	Entrance   map[string]map[string]string `json:"entrance,omitempty"` // exam -> field -> value
	Percentile string                       `json:"percentile,omitempty"`
	Education  map[string]map[string]string `json:"education,omitempty"` // level -> field -> value
	Documents  map[string]string            `json:"documents,omitempty"` // slot -> local file path
}

func main() {
	action := flag.String("action", "show", "show | save-draft | submit-final | logout")
	input := flag.String("input", "", "draft JSON file with section values and document paths")
	token := flag.String("token", "", "portal bearer token (defaults to PORTAL_TOKEN, then the cached session)")
	terms := flag.Bool("accept-terms", false, "acknowledge the declaration (required for submit-final)")
	yes := flag.Bool("yes", false, "skip the interactive final-submission confirmation")
	flag.Parse()

	zapLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	zapLog.Sync()

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracing := observability.NewTracing(cfg.App.Name, cfg.Observability.JaegerEndpoint)
	defer tracing.Shutdown()

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, nil); err != nil {
				zapLog.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
		zapLog.Info("metrics exposed", zap.String("address", addr))
	}

	ctx := context.Background()
	notifier := newConsoleNotifier()
	notices := apperrors.NewNoticeHandler(log)

	// --- Init session store with retry ---
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		var redisStore *session.RedisStore
		err = retryWithBackoff(func() error {
			var err error
			redisStore, err = session.NewRedisStore(cfg.Session.Redis, cfg.Session.TTLDuration())
			if err != nil {
				return err
			}
			return redisStore.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis session store connection")
		if err != nil {
			zapLog.Fatal("redis session store failed after retries", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
	default:
		store = session.NewMemoryStore()
	}

	if *action == "logout" {
		if err := store.Clear(ctx); err != nil {
			zapLog.Fatal("session clear failed", zap.Error(err))
		}
		fmt.Println("Signed out.")
		return
	}

	bearerToken, err := resolveToken(ctx, *token, store)
	if err != nil {
		notifier.Alert(notices.Handle(err))
		os.Exit(1)
	}

	client := portal.NewClient(
		cfg.Portal.BaseURL,
		bearerToken,
		cfg.Portal.RequestTimeout(),
		cfg.Portal.MultipartTimeout(),
		cfg.Portal.MaxDocumentKB,
	)

	e := engine.New(client, consoleNavigator{}, obs, tracing, log)
	if err := e.Load(ctx); err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeAuthRequired) {
			// The portal rejected the token, so the cached session is dead.
			_ = store.Clear(ctx)
		}
		notifier.Alert(notices.Handle(err))
		os.Exit(1)
	}

	// A successful load proves the token; cache it for the next run.
	_ = store.Save(ctx, &session.Session{
		Token:     bearerToken,
		Profile:   e.Profile(),
		CreatedAt: time.Now().UTC(),
	})

	if *input != "" {
		if err := applyDraftFile(e, *input); err != nil {
			notifier.Alert(notices.Handle(err))
			os.Exit(1)
		}
	}

	switch *action {
	case "show":
		printRecord(e)
	case "save-draft":
		runSubmit(ctx, e, notifier, notices, false, false)
	case "submit-final":
		if !*yes && !notifier.Confirm("Submit the application as final? It cannot be changed afterwards") {
			fmt.Println("Final submission cancelled.")
			return
		}
		runSubmit(ctx, e, notifier, notices, true, *terms)
	default:
		fmt.Fprintf(os.Stderr, "unknown action %q\n", *action)
		flag.Usage()
		os.Exit(2)
	}
}

// resolveToken prefers the explicit flag, then the environment, then the
// cached session.
func resolveToken(ctx context.Context, flagToken string, store session.Store) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if env := os.Getenv("PORTAL_TOKEN"); env != "" {
		return env, nil
	}
	cached, err := store.Load(ctx)
	if err == nil && cached.Token != "" {
		return cached.Token, nil
	}
	return "", apperrors.NewAuthRequiredError("no token given and no session cached")
}

// applyDraftFile routes the draft file through the section editors so the
// same format checks and patch semantics apply as in interactive editing.
func applyDraftFile(e *engine.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read draft file: %w", err)
	}
	var in draftInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse draft file: %w", err)
	}

	rec := e.Record()

	if len(in.Personal) > 0 {
		ed := editors.NewPersonalEditor(rec.Personal)
		for key, value := range in.Personal {
			ed.SetField(key, value)
		}
		if update, ok := ed.Emit(); ok {
			if err := e.UpdateFormData(engine.SectionPersonal, update); err != nil {
				return err
			}
		}
	}

	if len(in.Entrance) > 0 || in.Percentile != "" {
		ed := editors.NewEntranceEditor(e.FormType(), rec.Entrance)
		for exam, fields := range in.Entrance {
			for field, value := range fields {
				ed.SetExamField(exam, field, value)
			}
		}
		if in.Percentile != "" {
			ed.SetPercentile(in.Percentile)
		}
		if update, ok := ed.Emit(); ok {
			if err := e.UpdateFormData(engine.SectionEntrance, update); err != nil {
				return err
			}
		}
	}

	if len(in.Education) > 0 {
		ed := editors.NewEducationEditor(e.FormType(), rec.Education)
		for level, fields := range in.Education {
			for key, value := range fields {
				ed.SetField(level, key, value)
			}
		}
		if update, ok := ed.Emit(); ok {
			if err := e.UpdateFormData(engine.SectionEducation, update); err != nil {
				return err
			}
		}
	}

	if len(in.Documents) > 0 {
		ed := editors.NewDocumentsEditor(rec.Documents)
		defer ed.Close()
		for slot, filePath := range in.Documents {
			if err := ed.SelectFile(slot, filePath); err != nil {
				return fmt.Errorf("document %s: %w", slot, err)
			}
		}
		if update, ok := ed.Emit(); ok {
			if err := e.UpdateFormData(engine.SectionDocuments, update); err != nil {
				return err
			}
		}
	}

	return nil
}

func runSubmit(ctx context.Context, e *engine.Engine, notifier apperrors.Notifier, notices *apperrors.NoticeHandler, isFinal, termsAccepted bool) {
	result, err := e.Submit(ctx, isFinal, termsAccepted)
	if err != nil {
		notifier.Alert(notices.Handle(err))
		os.Exit(1)
	}
	fmt.Printf("Saved application %s (status: %s)\n", result.ApplicationID, result.Status)
}

func printRecord(e *engine.Engine) {
	rec := e.Record()
	fmt.Printf("Program:      %s\n", rec.FormType)
	fmt.Printf("Application:  %s\n", orNew(rec.ApplicationID))
	fmt.Printf("Status:       %s\n", rec.Status)
	if rec.SubmissionDate != "" {
		fmt.Printf("Submitted:    %s\n", rec.SubmissionDate)
	}

	printSection("Personal", rec.Personal)
	for _, level := range rec.FormType.EducationLevels() {
		printSection("Education/"+level, rec.Education[level])
	}
	printSection("Entrance", rec.Entrance)

	if len(rec.Documents) > 0 {
		fmt.Println("\nDocuments:")
		states := documentStates(rec.Documents)
		for _, slot := range sortedKeys(states) {
			fmt.Printf("  %-20s %s\n", slot, states[slot])
		}
	}

	if errs := e.ValidationErrors(true); !errs.Empty() {
		fmt.Println("\nOutstanding before final submission:")
		for _, msg := range errs.Messages() {
			fmt.Printf("  - %s\n", msg)
		}
	} else {
		fmt.Println("\nReady for final submission.")
	}
}

func printSection(title string, fields map[string]string) {
	if len(fields) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, key := range sortedKeys(fields) {
		if fields[key] != "" {
			fmt.Printf("  %-20s %s\n", key, fields[key])
		}
	}
}

func documentStates(docs models.Documents) map[string]string {
	out := make(map[string]string, len(docs))
	for slot, doc := range docs {
		switch {
		case doc.IsPending():
			out[slot] = "pending upload (" + doc.LocalPath + ")"
		case doc.IsStored():
			out[slot] = "on file"
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orNew(id string) string {
	if id == "" {
		return "(not yet created)"
	}
	return id
}
