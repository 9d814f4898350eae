// campusctl is a terminal client for the campus events platform. It
// wires the session store, API client, auth controller, catalog
// view-model and registration flow together, one subcommand per user
// action.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/campusevents/campus-client/config"
	"github.com/campusevents/campus-client/internal/api"
	"github.com/campusevents/campus-client/internal/auth"
	"github.com/campusevents/campus-client/internal/catalog"
	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/internal/qr"
	"github.com/campusevents/campus-client/internal/registration"
	"github.com/campusevents/campus-client/internal/session"
	"github.com/campusevents/campus-client/pkg/apperrors"
	"github.com/campusevents/campus-client/pkg/httpclient"
	"github.com/campusevents/campus-client/pkg/logger"
)

var (
	success = color.New(color.FgGreen).FprintfFunc()
	failure = color.New(color.FgRed).FprintfFunc()
	heading = color.New(color.Bold).FprintfFunc()
)

type app struct {
	cfg        *config.Config
	client     *api.Client
	controller *auth.Controller
	flow       *registration.Flow
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		failure(os.Stderr, "error: %v\n", err)
		if errors.Is(err, apperrors.ErrNetwork) {
			fmt.Fprintln(os.Stderr, "hint: check API_TARGET / API_URL and that the backend is running")
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "help" {
		usage()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	env := "production"
	if cfg.IsDevelopment() {
		env = "development"
	}
	if err := logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: env,
	}); err != nil {
		return err
	}
	defer logger.Sync()

	store, err := session.NewFileStore(cfg.Session.Path)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	tokens := session.NewTokenSource(store)

	var transport httpclient.Client
	if cfg.API.AuthMode == config.AuthModeCookie {
		transport, err = httpclient.NewCookieClient(timeout, tokens)
		if err != nil {
			return err
		}
	} else {
		transport = httpclient.NewBearerClient(timeout, tokens)
	}

	client := api.New(api.Options{
		BaseURL:           cfg.BaseURL(),
		HTTP:              transport,
		Sessions:          store,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		CollegeID:         cfg.API.CollegeID,
	})

	a := &app{
		cfg:        cfg,
		client:     client,
		controller: auth.NewController(client, store, nil),
		flow:       registration.NewFlow(client, store),
	}

	logger.Debug("campusctl starting",
		zap.String("base_url", cfg.BaseURL()),
		zap.String("auth_mode", cfg.API.AuthMode))

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "signup":
		return a.signup(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		a.controller.Logout(ctx)
		success(os.Stdout, "logged out\n")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "student-id":
		return a.studentID(rest)
	case "events":
		return a.events(ctx, rest)
	case "event":
		return a.event(ctx, rest)
	case "create-event":
		return a.createEvent(ctx, rest)
	case "update-event":
		return a.updateEvent(ctx, rest)
	case "delete-event":
		return a.deleteEvent(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "registrations":
		return a.registrations(ctx)
	case "feedback":
		return a.feedback(ctx, rest)
	case "attend":
		return a.attend(ctx, rest)
	case "checkin":
		return a.checkin(ctx, rest)
	case "reports":
		return a.reports(ctx, rest)
	case "health":
		if err := a.client.Health(ctx); err != nil {
			return err
		}
		success(os.Stdout, "backend reachable at %s\n", cfg.BaseURL())
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: campusctl <command> [flags]

account:
  signup -email -password [-name] [-role student|admin]
  login -email -password
  logout
  whoami
  student-id [-set <id>] [-clear]

events:
  events [-search q] [-type t] [-feature tag]
  event -id <event-id>
  create-event -title -type -starts-at [-description] [-capacity] [-features]
  update-event -id [-title] [-type] [-starts-at] [-description] [-capacity] [-features] [-cancelled]
  delete-event -id <event-id>

registration:
  register -id <event-id> [-qr out.png] [-show-qr]
  registrations
  feedback -id <event-id> -rating 1..5 [-comment text]

admin:
  attend -event <event-id> -student <student-id>
  checkin -token <registration-token>
  reports -kind registrations|attendance|top-students|feedback [-event id] [-limit n]

diagnostics:
  health`)
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "password")
	role := fs.String("role", string(models.RoleStudent), "student or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.controller.Signup(ctx, api.SignupInput{
		Email:    *email,
		Name:     *name,
		Password: *password,
		Role:     models.Role(*role),
	})
	if err != nil {
		return err
	}

	_, who := a.controller.State()
	success(os.Stdout, "signed up as %s (%s)\n", who.Email, who.Role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.controller.Login(ctx, *email, *password); err != nil {
		return err
	}

	_, who := a.controller.State()
	success(os.Stdout, "signed in as %s (%s), landing view: %s\n",
		who.Email, who.Role, a.controller.LandingView())
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	state := a.controller.Resolve(ctx)
	if state != auth.StateAuthenticated {
		fmt.Println("not authenticated")
		return nil
	}
	_, who := a.controller.State()
	fmt.Printf("authenticated: role=%s email=%s name=%s\n", who.Role, who.Email, who.Name)
	return nil
}

func (a *app) studentID(args []string) error {
	fs := flag.NewFlagSet("student-id", flag.ExitOnError)
	set := fs.String("set", "", "store this student id")
	clear := fs.Bool("clear", false, "forget the stored student id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *clear:
		if err := a.flow.ClearStudentID(); err != nil {
			return err
		}
		success(os.Stdout, "student id cleared\n")
	case *set != "":
		if err := a.flow.SetStudentID(*set); err != nil {
			return err
		}
		success(os.Stdout, "student id saved\n")
	default:
		if id, ok := a.flow.StudentID(); ok {
			fmt.Println(id)
		} else {
			fmt.Println("no student id set (use student-id -set <id>)")
		}
	}
	return nil
}

func (a *app) events(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	search := fs.String("search", "", "free-text query")
	eventType := fs.String("type", catalog.TypeAll, "event type filter")
	feature := fs.String("feature", "", "feature tag filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// One-shot listing: seed every filter up front and fetch exactly
	// once. The debounced setters are for live keystrokes, not for a
	// command invocation.
	vm := catalog.New(catalog.Options{
		Source:         a.client,
		CollegeID:      a.cfg.API.CollegeID,
		InitialSearch:  *search,
		InitialType:    *eventType,
		InitialFeature: *feature,
	})
	defer vm.Close()

	vm.Refresh(ctx)
	if err := vm.LastError(); err != nil {
		return err
	}

	printEvents(vm.Visible())
	return nil
}

func printEvents(events []models.Event) {
	if len(events) == 0 {
		fmt.Println("no events found")
		return
	}
	for _, ev := range events {
		marker := " "
		if ev.Featured {
			marker = "*"
		}
		capacity := "unlimited"
		if ev.Capacity != nil {
			capacity = fmt.Sprintf("%d", *ev.Capacity)
		}
		heading(os.Stdout, "%s %s  %s\n", marker, ev.ID, ev.Title)
		fmt.Printf("    %s | starts %s | %d registered / %s", ev.Type, ev.StartsAt, ev.RegisteredCount, capacity)
		if tags := ev.FeatureList(); len(tags) > 0 {
			fmt.Printf(" | %s", strings.Join(tags, ", "))
		}
		if ev.IsCancelled() {
			failure(os.Stdout, " | CANCELLED")
		}
		fmt.Println()
	}
}

func (a *app) event(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("event", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ev, err := a.client.GetEvent(ctx, *id)
	if err != nil {
		return err
	}
	heading(os.Stdout, "%s  %s\n", ev.ID, ev.Title)
	fmt.Printf("type: %s\nstarts: %s\n%s\n", ev.Type, ev.StartsAt, ev.Description)
	return nil
}

func (a *app) createEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-event", flag.ExitOnError)
	title := fs.String("title", "", "event title")
	eventType := fs.String("type", "", "event type")
	startsAt := fs.String("starts-at", "", "start timestamp (RFC3339)")
	description := fs.String("description", "", "event description")
	capacity := fs.Int("capacity", 0, "capacity (0 = unlimited)")
	features := fs.String("features", "", "comma-joined feature tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := models.EventInput{
		Title:       *title,
		Type:        models.EventType(*eventType),
		StartsAt:    *startsAt,
		Description: *description,
		Features:    *features,
		CollegeID:   a.cfg.API.CollegeID,
	}
	if *capacity > 0 {
		in.Capacity = capacity
	}

	id, err := a.client.CreateEvent(ctx, in)
	if err != nil {
		return err
	}
	success(os.Stdout, "event created: %s\n", id)
	return nil
}

func (a *app) updateEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-event", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	title := fs.String("title", "", "event title")
	eventType := fs.String("type", "", "event type")
	startsAt := fs.String("starts-at", "", "start timestamp")
	description := fs.String("description", "", "event description")
	capacity := fs.Int("capacity", 0, "capacity")
	features := fs.String("features", "", "comma-joined feature tags")
	cancelled := fs.Bool("cancelled", false, "cancel the event")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only flags the admin actually passed become part of the update.
	fields := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			fields["title"] = *title
		case "type":
			fields["type"] = *eventType
		case "starts-at":
			fields["starts_at"] = *startsAt
		case "description":
			fields["description"] = *description
		case "capacity":
			fields["capacity"] = *capacity
		case "features":
			fields["features"] = *features
		case "cancelled":
			flagVal := 0
			if *cancelled {
				flagVal = 1
			}
			fields["cancelled_flag"] = flagVal
		}
	})

	if err := a.client.UpdateEvent(ctx, *id, fields); err != nil {
		return err
	}
	success(os.Stdout, "event updated\n")
	return nil
}

func (a *app) deleteEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-event", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.DeleteEvent(ctx, *id); err != nil {
		return err
	}
	success(os.Stdout, "event deleted\n")
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	qrOut := fs.String("qr", "", "write the check-in QR code to this PNG file")
	showQR := fs.Bool("show-qr", false, "print the QR code to the terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.flow.Register(ctx, *id)
	var dup *registration.AlreadyRegisteredError
	switch {
	case err == nil:
		success(os.Stdout, "registered for %s\n", *id)
	case errors.Is(err, registration.ErrIdentityRequired):
		return fmt.Errorf("no student id set; run: campusctl student-id -set <id>")
	case errors.As(err, &dup):
		fmt.Println("already registered; showing your existing token")
		token = dup.Token
	default:
		return err
	}

	fmt.Printf("check-in token: %s\n", token)
	if *qrOut != "" {
		if err := qr.WritePNG(token, *qrOut, qr.DefaultSize); err != nil {
			return err
		}
		success(os.Stdout, "QR code written to %s\n", *qrOut)
	}
	if *showQR {
		block, err := qr.Terminal(token)
		if err != nil {
			return err
		}
		fmt.Print(block)
	}
	return nil
}

func (a *app) registrations(ctx context.Context) error {
	regs, err := a.flow.Registrations(ctx)
	if err != nil {
		if errors.Is(err, registration.ErrIdentityRequired) {
			return fmt.Errorf("no student id set; run: campusctl student-id -set <id>")
		}
		return err
	}

	if len(regs) == 0 {
		fmt.Println("no registrations yet")
		return nil
	}
	for _, reg := range regs {
		title := reg.EventTitle
		if title == "" {
			title = reg.EventID
		}
		heading(os.Stdout, "%s\n", title)
		fmt.Printf("    event=%s status=%s token=%s registered=%s\n",
			reg.EventID, reg.Status, reg.Token, reg.RegisteredAt)
	}
	return nil
}

func (a *app) feedback(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	id := fs.String("id", "", "event id")
	rating := fs.Int("rating", 0, "rating 1..5")
	comment := fs.String("comment", "", "feedback text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.flow.SubmitFeedback(ctx, *id, *rating, *comment); err != nil {
		if errors.Is(err, registration.ErrIdentityRequired) {
			return fmt.Errorf("no student id set; run: campusctl student-id -set <id>")
		}
		return err
	}
	success(os.Stdout, "feedback submitted\n")
	return nil
}

func (a *app) attend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("attend", flag.ExitOnError)
	event := fs.String("event", "", "event id")
	student := fs.String("student", "", "student id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.client.MarkAttendance(ctx, *event, *student)
	if err != nil {
		failure(os.Stderr, "Attendance failed\n")
		return err
	}
	success(os.Stdout, "attendance marked: event=%s student=%s\n", res.EventID, res.StudentID)
	return nil
}

func (a *app) checkin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkin", flag.ExitOnError)
	token := fs.String("token", "", "registration token (scanned from QR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.client.MarkAttendanceByToken(ctx, *token)
	if err != nil {
		failure(os.Stderr, "Attendance failed\n")
		return err
	}
	success(os.Stdout, "attendance marked: event=%s student=%s\n", res.EventID, res.StudentID)
	return nil
}

func (a *app) reports(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	kind := fs.String("kind", "registrations", "registrations|attendance|top-students|feedback")
	event := fs.String("event", "", "event id (attendance report)")
	limit := fs.Int("limit", 5, "row limit (top-students report)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *kind {
	case "registrations":
		rows, err := a.client.ReportRegistrations(ctx, "")
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%-12s %-30s %s: %d registrations\n", r.EventID, r.Title, r.Type, r.Registrations)
		}
	case "attendance":
		rows, err := a.client.ReportAttendancePercentage(ctx, *event)
		if err != nil {
			return err
		}
		for _, r := range rows {
			pct := "n/a"
			if r.AttendancePct != nil {
				pct = fmt.Sprintf("%.1f%%", *r.AttendancePct)
			}
			fmt.Printf("%-12s %-30s %d/%d present (%s)\n", r.EventID, r.Title, r.Presents, r.Registrations, pct)
		}
	case "top-students":
		rows, err := a.client.ReportTopActiveStudents(ctx, "", *limit)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%-12s %-24s %d events attended\n", r.StudentID, r.Name, r.AttendedEvents)
		}
	case "feedback":
		rows, err := a.client.ReportAvgFeedback(ctx, "")
		if err != nil {
			return err
		}
		for _, r := range rows {
			avg := "n/a"
			if r.AvgRating != nil {
				avg = fmt.Sprintf("%.2f", *r.AvgRating)
			}
			fmt.Printf("%-12s %-30s avg %s over %d entries\n", r.EventID, r.Title, avg, r.FeedbackCount)
		}
	default:
		return fmt.Errorf("unknown report kind %q", *kind)
	}
	return nil
}
