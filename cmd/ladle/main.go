package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/challenges"
	"github.com/ladleapp/ladle/internal/notify"
	"github.com/ladleapp/ladle/internal/setup"
	"github.com/ladleapp/ladle/internal/tips"
	"github.com/ladleapp/ladle/internal/tui"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// LogDir specifies where client log sessions are stored.
const LogDir = "logs/ladle_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "ladle",
		Usage: "Terminal client for the cooking community",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runTUI(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:  "tui",
				Usage: "Start the interactive terminal interface (default)",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runTUI(ctx)
				},
			},
			{
				Name:  "tips",
				Usage: "Work with cooking tips",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List tips",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "category",
								Aliases: []string{"c"},
								Usage:   "Filter by category (Storage, Prep, Substitutes)",
							},
							&cli.StringFlag{
								Name:    "search",
								Aliases: []string{"s"},
								Usage:   "Filter by title substring",
							},
							&cli.BoolFlag{
								Name:  "featured",
								Usage: "Show only featured tips",
							},
						},
						Action: listTips,
					},
					{
						Name:      "rate",
						Usage:     "Rate a tip from 1 to 5",
						ArgsUsage: "<tip-id> <rating>",
						Action:    rateTip,
					},
					{
						Name:   "create",
						Usage:  "Share a new tip",
						Flags:  tipFlags(),
						Action: createTip,
					},
					{
						Name:      "edit",
						Usage:     "Edit one of your tips",
						ArgsUsage: "<tip-id>",
						Flags:     tipFlags(),
						Action:    editTip,
					},
					{
						Name:      "delete",
						Usage:     "Delete one of your tips",
						ArgsUsage: "<tip-id>",
						Action:    deleteTip,
					},
					{
						Name:  "comments",
						Usage: "Work with a tip's comments",
						Commands: []*cli.Command{
							{
								Name:      "list",
								Usage:     "List a tip's comments",
								ArgsUsage: "<tip-id>",
								Action:    listComments,
							},
							{
								Name:      "add",
								Usage:     "Comment on a tip",
								ArgsUsage: "<tip-id> <text>",
								Flags: []cli.Flag{
									&cli.IntFlag{Name: "rating", Usage: "Star rating to attach (1-5)"},
									&cli.StringFlag{Name: "name", Usage: "Display name for the comment"},
								},
								Action: addComment,
							},
							{
								Name:      "edit",
								Usage:     "Edit your comment",
								ArgsUsage: "<tip-id> <comment-id> <text>",
								Flags: []cli.Flag{
									&cli.IntFlag{Name: "rating", Usage: "Star rating to attach (1-5)"},
								},
								Action: editComment,
							},
							{
								Name:      "delete",
								Usage:     "Delete your comment",
								ArgsUsage: "<tip-id> <comment-id>",
								Action:    deleteComment,
							},
						},
					},
				},
			},
			{
				Name:  "challenges",
				Usage: "Work with cooking challenges",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List challenges",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "mine", Usage: "Only your challenges"},
							&cli.BoolFlag{Name: "past", Usage: "Your ended challenges instead of running ones"},
						},
						Action: listChallenges,
					},
					{
						Name:   "create",
						Usage:  "Create a new challenge",
						Flags:  challengeFlags(),
						Action: createChallenge,
					},
					{
						Name:      "edit",
						Usage:     "Edit one of your challenges; unset flags keep their stored values",
						ArgsUsage: "<challenge-id>",
						Flags:     challengeFlags(),
						Action:    editChallenge,
					},
					{
						Name:      "delete",
						Usage:     "Delete one of your challenges",
						ArgsUsage: "<challenge-id>",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "confirm", Usage: "Actually delete; omitted, the command only explains what would happen"},
						},
						Action: deleteChallenge,
					},
					{
						Name:      "submit",
						Usage:     "Enter one of your recipes into a challenge",
						ArgsUsage: "<challenge-id> <recipe-id>",
						Action:    submitRecipe,
					},
					{
						Name:      "leaderboard",
						Usage:     "Show a challenge's leaderboard",
						ArgsUsage: "<challenge-id>",
						Action:    showLeaderboard,
					},
					{
						Name:      "vote",
						Usage:     "Vote for a submission",
						ArgsUsage: "<challenge-id> <recipe-id>",
						Action:    castVote,
					},
				},
			},
			{
				Name:  "session",
				Usage: "Inspect or reset the local session",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show the viewer identity and stored ratings",
						Action: showSession,
					},
					{
						Name:   "reset",
						Usage:  "Forget the anonymous identity and stored ratings",
						Action: resetSession,
					},
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

func runTUI(ctx context.Context) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	tipsCtl, err := tips.NewController(app.API, app.Session, app.ViewerID, app.Logger)
	if err != nil {
		return err
	}

	chCtl := challenges.NewController(app.API, app.ViewerID, app.Logger)
	center := notify.NewCenter()

	model := tui.NewModel(ctx, tipsCtl, chCtl, center, app.LogManager.MainLogPath())

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		app.Logger.Error("TUI exited with error", zap.Error(err))
		return err
	}

	return nil
}

func listTips(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	var list []*api.Tip

	switch {
	case c.Bool("featured"):
		list, err = app.API.FeaturedTips(ctx)
	case c.String("category") != "":
		list, err = app.API.TipsByCategory(ctx, api.Category(c.String("category")))
	case c.String("search") != "":
		list, err = app.API.SearchTips(ctx, c.String("search"))
	default:
		list, err = app.API.ListTips(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tRATING\tCOUNT\tTITLE")

	for _, tip := range list {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\n",
			tip.ID, tip.Category, tip.AverageRating, tip.RatingCount, tip.Title)
	}

	if best := tips.MostRated(list); best != nil {
		fmt.Fprintf(w, "\nMost rated: %s (%d ratings)\n", best.Title, best.RatingCount)
	}

	return w.Flush()
}

func rateTip(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <tip-id> <rating>, got %d arguments", c.Args().Len())
	}

	rating, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("rating must be a number: %w", err)
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	tipsCtl, err := tips.NewController(app.API, app.Session, app.ViewerID, app.Logger)
	if err != nil {
		return err
	}

	if err := tipsCtl.SubmitRating(ctx, c.Args().Get(0), rating); err != nil {
		return err
	}

	fmt.Printf("Rated tip %s with %d stars\n", c.Args().Get(0), rating)

	return nil
}

func listChallenges(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	var list []*api.Challenge
	switch {
	case c.Bool("past"):
		list, err = app.API.PastChallenges(ctx, app.ViewerID)
	case c.Bool("mine"):
		list, err = app.API.ActiveChallenges(ctx, app.ViewerID)
	default:
		list, err = app.API.AllActiveChallenges(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENDS\tSUBMISSIONS\tTITLE")

	for _, challenge := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			challenge.ID,
			challenge.EndDate.Format(time.DateOnly),
			len(challenge.Submissions),
			challenge.Title)
	}

	return w.Flush()
}

func showLeaderboard(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <challenge-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	chCtl := challenges.NewController(app.API, app.ViewerID, app.Logger)
	if err := chCtl.Load(ctx, challenges.ScopeAllActive); err != nil {
		return err
	}

	var target *api.Challenge
	for _, challenge := range chCtl.Challenges() {
		if challenge.ID == c.Args().First() {
			target = challenge
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: challenge %s", api.ErrNotFound, c.Args().First())
	}

	entries, err := chCtl.Leaderboard(ctx, target)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tVOTES\tRECIPE\tCAN VOTE")

	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%d\t%s\t%v\n", i+1, entry.Submission.Votes, entry.RecipeTitle, entry.CanVote)
	}

	return w.Flush()
}

func castVote(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <challenge-id> <recipe-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	chCtl := challenges.NewController(app.API, app.ViewerID, app.Logger)
	if err := chCtl.Load(ctx, challenges.ScopeAllActive); err != nil {
		return err
	}

	var target *api.Challenge
	for _, challenge := range chCtl.Challenges() {
		if challenge.ID == c.Args().First() {
			target = challenge
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: challenge %s", api.ErrNotFound, c.Args().First())
	}

	if err := chCtl.CastVote(ctx, target, c.Args().Get(1)); err != nil {
		return err
	}

	fmt.Println("Vote counted")

	return nil
}

func showSession(ctx context.Context, _ *cli.Command) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	fmt.Printf("Viewer ID: %s\n", app.ViewerID)

	ratings, err := app.Session.Ratings()
	if err != nil {
		return err
	}

	if len(ratings) == 0 {
		fmt.Println("No stored ratings.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIP\tRATING")

	for tipID, rating := range ratings {
		fmt.Fprintf(w, "%s\t%d\n", tipID, rating)
	}

	return w.Flush()
}

func resetSession(ctx context.Context, _ *cli.Command) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	if err := app.Session.Reset(); err != nil {
		return err
	}

	fmt.Println("Session reset; a new anonymous identity will be generated on next use.")

	return nil
}

func tipFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Tip title"},
		&cli.StringFlag{Name: "description", Usage: "Tip body"},
		&cli.StringFlag{Name: "category", Usage: "Category (Storage, Prep, Substitutes)"},
	}
}

func challengeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Challenge title"},
		&cli.StringFlag{Name: "theme", Usage: "Challenge theme"},
		&cli.StringFlag{Name: "description", Usage: "Challenge description"},
		&cli.StringFlag{Name: "start", Usage: "Start date (RFC 3339 or YYYY-MM-DD)"},
		&cli.StringFlag{Name: "end", Usage: "End date (RFC 3339 or YYYY-MM-DD)"},
		&cli.StringFlag{Name: "image", Usage: "Path to a cover image"},
	}
}

// parseDate accepts either a full RFC 3339 timestamp or a bare date.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as a date: %w", value, err)
	}

	return t, nil
}

func createTip(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	tip, err := app.API.CreateTip(ctx, &api.TipDraft{
		Title:       c.String("title"),
		Description: c.String("description"),
		Category:    api.Category(c.String("category")),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created tip %s\n", tip.ID)

	return nil
}

func editTip(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <tip-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	list, err := app.API.MyTips(ctx)
	if err != nil {
		return err
	}

	var existing *api.Tip
	for _, tip := range list {
		if tip.ID == c.Args().First() {
			existing = tip
			break
		}
	}
	if existing == nil {
		return fmt.Errorf("%w: tip %s", api.ErrNotFound, c.Args().First())
	}

	// Unset flags keep the tip's current values.
	draft := &api.TipDraft{
		Title:       existing.Title,
		Description: existing.Description,
		Category:    existing.Category,
	}
	if c.IsSet("title") {
		draft.Title = c.String("title")
	}
	if c.IsSet("description") {
		draft.Description = c.String("description")
	}
	if c.IsSet("category") {
		draft.Category = api.Category(c.String("category"))
	}

	if _, err := app.API.UpdateTip(ctx, existing.ID, draft); err != nil {
		return err
	}

	fmt.Printf("Updated tip %s\n", existing.ID)

	return nil
}

func deleteTip(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <tip-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	if err := app.API.DeleteTip(ctx, c.Args().First()); err != nil {
		return err
	}

	fmt.Printf("Deleted tip %s\n", c.Args().First())

	return nil
}

func listComments(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <tip-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	comments, err := app.API.ListComments(ctx, c.Args().First())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRATING\tAUTHOR\tTEXT")

	for _, comment := range comments {
		author := comment.UserName
		if author == "" {
			author = "anonymous"
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", comment.ID, comment.Rating, author, comment.Text)
	}

	return w.Flush()
}

func addComment(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <tip-id> <text>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	comment, err := app.API.AddComment(ctx, c.Args().First(), &api.CommentDraft{
		Text:     c.Args().Get(1),
		Rating:   int(c.Int("rating")),
		UserName: c.String("name"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added comment %s\n", comment.ID)

	return nil
}

func editComment(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <tip-id> <comment-id> <text>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	_, err = app.API.UpdateComment(ctx, c.Args().First(), c.Args().Get(1), &api.CommentDraft{
		Text:   c.Args().Get(2),
		Rating: int(c.Int("rating")),
	})
	if err != nil {
		return err
	}

	fmt.Println("Comment updated")

	return nil
}

func deleteComment(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <tip-id> <comment-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	if err := app.API.DeleteComment(ctx, c.Args().First(), c.Args().Get(1)); err != nil {
		return err
	}

	fmt.Println("Comment deleted")

	return nil
}

// applyChallengeFlags copies the set flags onto the form. On an edit form an
// explicit --start is refused rather than silently dropped.
func applyChallengeFlags(c *cli.Command, form *challenges.Form) error {
	if c.IsSet("title") {
		form.Title = c.String("title")
	}
	if c.IsSet("theme") {
		form.Theme = c.String("theme")
	}
	if c.IsSet("description") {
		form.Description = c.String("description")
	}

	if c.IsSet("start") {
		start, err := parseDate(c.String("start"))
		if err != nil {
			return err
		}

		if err := form.SetStartDate(start); err != nil {
			return err
		}
	}

	if c.IsSet("end") {
		end, err := parseDate(c.String("end"))
		if err != nil {
			return err
		}

		form.EndDate = end
	}

	if c.IsSet("image") {
		file, err := os.Open(c.String("image"))
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}

		form.ImageName = filepath.Base(c.String("image"))
		form.Image = file
	}

	return nil
}

func createChallenge(ctx context.Context, c *cli.Command) error {
	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	form := challenges.NewCreateForm()
	if err := applyChallengeFlags(c, form); err != nil {
		return err
	}

	challenge, err := form.Submit(ctx, app.API, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Created challenge %s\n", challenge.ID)

	return nil
}

func editChallenge(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <challenge-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	existing, err := findChallenge(ctx, app, c.Args().First())
	if err != nil {
		return err
	}

	form := challenges.NewEditForm(existing)
	if err := applyChallengeFlags(c, form); err != nil {
		return err
	}

	if _, err := form.Submit(ctx, app.API, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Updated challenge %s\n", existing.ID)

	return nil
}

func deleteChallenge(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <challenge-id>, got %d arguments", c.Args().Len())
	}

	if !c.Bool("confirm") {
		fmt.Printf("This would permanently delete challenge %s. Re-run with --confirm to proceed.\n", c.Args().First())
		return nil
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	chCtl := challenges.NewController(app.API, app.ViewerID, app.Logger)

	flow := chCtl.StartDelete(c.Args().First())
	flow.Request()

	if err := chCtl.ConfirmDelete(ctx, flow); err != nil {
		return err
	}

	fmt.Printf("Deleted challenge %s\n", c.Args().First())

	return nil
}

func submitRecipe(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <challenge-id> <recipe-id>, got %d arguments", c.Args().Len())
	}

	app, err := setup.InitializeApp(LogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	chCtl := challenges.NewController(app.API, app.ViewerID, app.Logger)
	if err := chCtl.SubmitRecipe(ctx, c.Args().First(), c.Args().Get(1)); err != nil {
		return err
	}

	fmt.Println("Recipe submitted")

	return nil
}

// findChallenge looks an id up across the lists the viewer can see.
func findChallenge(ctx context.Context, app *setup.App, id string) (*api.Challenge, error) {
	lists := []func() ([]*api.Challenge, error){
		func() ([]*api.Challenge, error) { return app.API.AllActiveChallenges(ctx) },
		func() ([]*api.Challenge, error) { return app.API.ActiveChallenges(ctx, app.ViewerID) },
		func() ([]*api.Challenge, error) { return app.API.PastChallenges(ctx, app.ViewerID) },
	}

	for _, list := range lists {
		challengeList, err := list()
		if err != nil {
			return nil, err
		}

		for _, challenge := range challengeList {
			if challenge.ID == id {
				return challenge, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: challenge %s", api.ErrNotFound, id)
}
