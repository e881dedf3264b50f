package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drivetrain/pkg/errors"
	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/session"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// errOverlap is returned by `check --strict` when an undismissed overlap
// warning remains.
var errOverlap = errors.New(errors.ErrCodeInvalidElement, "symbols overlap")

type checkFlags struct {
	passFlags
	dismiss bool
	reset   bool
	strict  bool
}

// checkCommand validates a definition and reports the overlap warning,
// remembering dismissals per definition file.
func (c *CLI) checkCommand() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check [definition]",
		Short: "Validate a definition and report overlapping symbols",
		Long: `Validate a definition and report overlapping symbols.

The warning is tied to the exact set of overlapping elements. --dismiss
silences it for that set; once an edit produces a different set, the
warning returns. Dismissals are remembered per definition file.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDefinitions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			store, err := newSessionStore()
			if err != nil {
				return fmt.Errorf("open sessions: %w", err)
			}
			return c.runCheck(cmd.Context(), args[0], opts, store, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dismiss, "dismiss", false, "dismiss the current overlap warning")
	cmd.Flags().BoolVar(&flags.reset, "reset", false, "forget an earlier dismissal")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero while an overlap warning is shown")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string, opts pipeline.Options, store session.Store, flags checkFlags) error {
	elems, err := pkgio.ImportDefinition(input)
	if err != nil {
		return err
	}

	sess, err := loadFileSession(ctx, store, input)
	if err != nil {
		return err
	}
	if flags.reset {
		sess.Dismissed = ""
	}
	if opts.View.Selected == "" {
		opts.View.Selected = sess.Selected
	}
	opts.View.Dismissed = sess.Dismissed

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sc, hit, err := runner.LayoutWithCacheInfo(ctx, elems, opts)
	if err != nil {
		return err
	}
	changed := sess.Observe(sc.Fingerprint)
	if flags.dismiss {
		sess.Dismiss()
	}
	sess.Selected = opts.View.Selected
	sess.Touch(session.DefaultTTL)
	if err := store.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	printSuccess("%s is valid", input)
	printKeyValue("elements", fmt.Sprint(len(elems)))
	printKeyValue("ratio", fmt.Sprintf("%.3f", transmission.OverallRatio(elems)))
	printStats(sc, hit)

	switch {
	case len(sc.Overlaps) == 0:
		printInfo("No overlapping symbols")
	case flags.dismiss:
		printInfo("Overlap warning dismissed for %d elements", len(sc.Overlaps))
	case sess.ShouldWarn():
		printOverlapWarning(sc)
		if changed {
			printDetail("the overlap set changed since the last check")
		}
		printDetail("dismiss with: %s check --dismiss %s", appName, input)
		if flags.strict {
			return errOverlap
		}
	default:
		printInfo("Overlap warning dismissed earlier (%d elements)", len(sc.Overlaps))
	}
	return nil
}

// loadFileSession returns the session tied to a definition file, creating
// it on first use.
func loadFileSession(ctx context.Context, store session.Store, path string) (*session.Session, error) {
	id := session.IDForPath(path)
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = session.New(session.DefaultTTL)
		sess.ID = id
	}
	return sess, nil
}

// applyFileSession fills in the remembered selection and dismissal for a
// definition file. A missing or unreadable session leaves opts untouched.
func applyFileSession(ctx context.Context, path string, opts *pipeline.Options) {
	store, err := newSessionStore()
	if err != nil {
		return
	}
	sess, err := store.Get(ctx, session.IDForPath(path))
	if err != nil || sess == nil {
		return
	}
	if opts.View.Selected == "" {
		opts.View.Selected = sess.Selected
	}
	opts.View.Dismissed = sess.Dismissed
}
