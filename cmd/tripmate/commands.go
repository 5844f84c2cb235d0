package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripmate/tripmate-client/internal/bootstrap"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/gate"
	"github.com/tripmate/tripmate-client/internal/session"
)

const dateLayout = "2006-01-02"

// settled opens the app and waits until the session state stops moving.
func settled(cmdCtx *commandContext) (*bootstrap.App, session.State, error) {
	app, err := cmdCtx.app()
	if err != nil {
		return nil, nil, err
	}
	st, err := waitState(cmdCtx, app, session.Settled)
	return app, st, err
}

func waitState(cmdCtx *commandContext, app *bootstrap.App, pred func(session.State) bool) (session.State, error) {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultStartTimeout)
	defer cancel()
	st, err := app.Session.WaitFor(ctx, pred)
	if err != nil {
		return st, fmt.Errorf("wait for session: %w", err)
	}
	return st, nil
}

func parseOnly(name string, args []string) (*outputOptions, error) {
	fs, out := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return out, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("login", args)
	if err != nil {
		return err
	}
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	if err := app.Session.Login(cmdCtx.Ctx); err != nil {
		if apperrors.IsAlreadyAuthenticated(err) {
			_ = writef(cmdCtx.Err, "Already logged in as %s. Run `tripmate logout` first.\n", app.Identity.Identity())
		}
		return err
	}
	st, err := waitState(cmdCtx, app, func(s session.State) bool {
		return session.IsAuthenticated(s) && session.Settled(s)
	})
	if err != nil {
		return err
	}
	if session.ShowProfileSetup(st) {
		_ = writef(cmdCtx.Err, "Welcome! Create your profile with: tripmate profile-create --role traveler|business --name NAME\n")
	}
	return printJSON(cmdCtx.Out, viewState(st), out)
}

func runLogout(cmdCtx *commandContext, args []string) error {
	if _, err := parseOnly("logout", args); err != nil {
		return err
	}
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	who := app.Identity.Identity()
	if err := app.Session.Logout(cmdCtx.Ctx); err != nil {
		return err
	}
	if who.IsAnonymous() {
		return writef(cmdCtx.Err, "Not logged in.\n")
	}
	return writef(cmdCtx.Err, "Logged out %s.\n", who)
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("whoami", args)
	if err != nil {
		return err
	}
	_, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, viewState(st), out)
}

type profileFlags struct {
	Role string
	Name string
}

func parseProfileFlags(name string, args []string) (profileFlags, *outputOptions, map[string]bool, error) {
	fs, out := newFlagSet(name)
	var opts profileFlags
	fs.StringVar(&opts.Role, "role", string(model.AppRoleTraveler), "App role: traveler or business")
	fs.StringVar(&opts.Name, "name", "", "Display name")
	if err := fs.Parse(args); err != nil {
		return profileFlags{}, nil, nil, err
	}
	return opts, out, visited(fs), nil
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func runProfileCreate(cmdCtx *commandContext, args []string) error {
	opts, out, _, err := parseProfileFlags("profile-create", args)
	if err != nil {
		return err
	}
	role, err := model.ParseAppUserRole(opts.Role)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.Name) == "" {
		return apperrors.ValidationField("name", "name is required")
	}

	app, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	switch st.(type) {
	case session.Ready:
		return apperrors.Conflict("Profile already exists")
	case session.NeedsProfile:
	default:
		return admit(cmdCtx.Err, gate.RequireAuth(st))
	}

	if err := app.Repos.Profiles.Create(cmdCtx.Ctx, role, opts.Name); err != nil {
		return err
	}
	st, err = waitState(cmdCtx, app, func(s session.State) bool { return s.Kind() == session.KindReady })
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, viewState(st), out)
}

func runProfileSave(cmdCtx *commandContext, args []string) error {
	opts, out, set, err := parseProfileFlags("profile-save", args)
	if err != nil {
		return err
	}
	app, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	if err := admit(cmdCtx.Err, gate.RequireAuth(st)); err != nil {
		return err
	}
	profile, _ := session.ProfileOf(st)
	if set["name"] {
		profile.Name = opts.Name
	}
	if set["role"] {
		if profile.AppRole, err = model.ParseAppUserRole(opts.Role); err != nil {
			return err
		}
	}
	if err := app.Repos.Profiles.Save(cmdCtx.Ctx, profile); err != nil {
		return err
	}
	saved, err := app.Repos.Profiles.Caller(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, saved, out)
}

func runTrips(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("trips", args)
	if err != nil {
		return err
	}
	app, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	if err := admit(cmdCtx.Err, gate.RequireRole(st, gate.CapabilityTraveler)); err != nil {
		return err
	}
	plans, err := app.Repos.Trips.Caller(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, plans, out)
}

type tripFlags struct {
	Destination string
	TripType    string
	Start       string
	End         string
	Interests   string
	Notes       string
}

func (f tripFlags) details() (model.TripDetails, error) {
	start, err := time.Parse(dateLayout, f.Start)
	if err != nil {
		return model.TripDetails{}, apperrors.ValidationField("start", "start must be a date like 2025-06-01")
	}
	end, err := time.Parse(dateLayout, f.End)
	if err != nil {
		return model.TripDetails{}, apperrors.ValidationField("end", "end must be a date like 2025-06-08")
	}
	d := model.TripDetails{
		Destination: strings.TrimSpace(f.Destination),
		TripType:    strings.TrimSpace(f.TripType),
		StartDate:   model.TimeFrom(start),
		EndDate:     model.TimeFrom(end),
		Interests:   model.Optional(f.Interests),
		Notes:       model.Optional(f.Notes),
	}
	return d, d.Validate()
}

func runTripCreate(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet("trip-create")
	var opts tripFlags
	fs.StringVar(&opts.Destination, "destination", "", "Where you are going")
	fs.StringVar(&opts.TripType, "type", "solo", "Trip type, e.g. solo, family, bike gang")
	fs.StringVar(&opts.Start, "start", "", "First day (YYYY-MM-DD)")
	fs.StringVar(&opts.End, "end", "", "Last day (YYYY-MM-DD)")
	fs.StringVar(&opts.Interests, "interests", "", "Optional interests")
	fs.StringVar(&opts.Notes, "notes", "", "Optional notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	details, err := opts.details()
	if err != nil {
		return err
	}

	app, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	if err := admit(cmdCtx.Err, gate.RequireRole(st, gate.CapabilityTraveler)); err != nil {
		return err
	}
	plan, err := app.Repos.Trips.Create(cmdCtx.Ctx, details)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, plan, out)
}

func runListings(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet("listings")
	var category, search string
	var sorted bool
	fs.StringVar(&category, "category", "", "Only listings in this category")
	fs.StringVar(&search, "search", "", "Match destination or name")
	fs.BoolVar(&sorted, "sorted", false, "Sort by name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}

	var listings []model.PromotedListing
	switch {
	case strings.TrimSpace(category) != "" && category != model.CategoryAll:
		listings, err = app.Repos.Listings.ByCategory(cmdCtx.Ctx, category)
	case sorted:
		listings, err = app.Repos.Listings.SortedByName(cmdCtx.Ctx)
	default:
		listings, err = app.Repos.Listings.All(cmdCtx.Ctx)
	}
	if err != nil {
		return err
	}
	listings = model.FilterListings(listings, model.ListingFilter{Search: search})
	return printJSON(cmdCtx.Out, listings, out)
}

func runListingsMine(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("listings-mine", args)
	if err != nil {
		return err
	}
	app, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	if err := admit(cmdCtx.Err, gate.RequireRole(st, gate.CapabilityBusiness)); err != nil {
		return err
	}
	mine, err := app.Repos.Listings.Caller(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, mine, out)
}

type listingFlags struct {
	ID          string
	Name        string
	Category    string
	Destination string
	Description string
	Contact     string
	Promo       string
}

func parseListingFlags(name string, args []string) (listingFlags, *outputOptions, map[string]bool, error) {
	fs, out := newFlagSet(name)
	var opts listingFlags
	fs.StringVar(&opts.ID, "id", "", "Listing id")
	fs.StringVar(&opts.Name, "name", "", "Business name")
	fs.StringVar(&opts.Category, "category", "", "hotel, resort, restaurant, tourist place or other")
	fs.StringVar(&opts.Destination, "destination", "", "Destination served")
	fs.StringVar(&opts.Description, "description", "", "Description")
	fs.StringVar(&opts.Contact, "contact", "", "Contact info")
	fs.StringVar(&opts.Promo, "promo", "", "Optional promotional text")
	if err := fs.Parse(args); err != nil {
		return listingFlags{}, nil, nil, err
	}
	return opts, out, visited(fs), nil
}

// apply copies every flag the user set onto l.
func (f listingFlags) apply(l model.PromotedListing, set map[string]bool) model.PromotedListing {
	if set["name"] {
		l.Name = f.Name
	}
	if set["category"] {
		l.Category = f.Category
	}
	if set["destination"] {
		l.Destination = f.Destination
	}
	if set["description"] {
		l.Description = f.Description
	}
	if set["contact"] {
		l.ContactInfo = f.Contact
	}
	if set["promo"] {
		l.PromoText = model.Optional(f.Promo)
	}
	return l
}

func businessApp(cmdCtx *commandContext) (*bootstrap.App, error) {
	app, st, err := settled(cmdCtx)
	if err != nil {
		return nil, err
	}
	if err := admit(cmdCtx.Err, gate.RequireRole(st, gate.CapabilityBusiness)); err != nil {
		return nil, err
	}
	return app, nil
}

func runListingCreate(cmdCtx *commandContext, args []string) error {
	opts, out, set, err := parseListingFlags("listing-create", args)
	if err != nil {
		return err
	}
	draft := opts.apply(model.PromotedListing{ID: opts.ID}, set)
	if err := draft.Validate(); err != nil {
		return err
	}
	app, err := businessApp(cmdCtx)
	if err != nil {
		return err
	}
	created, err := app.Repos.Listings.Create(cmdCtx.Ctx, draft)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, created, out)
}

func findListing(listings []model.PromotedListing, id string) (model.PromotedListing, bool) {
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	return model.PromotedListing{}, false
}

func runListingUpdate(cmdCtx *commandContext, args []string) error {
	opts, out, set, err := parseListingFlags("listing-update", args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.ID) == "" {
		return apperrors.ValidationField("id", "id is required")
	}
	app, err := businessApp(cmdCtx)
	if err != nil {
		return err
	}
	mine, err := app.Repos.Listings.Caller(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	current, ok := findListing(mine, opts.ID)
	if !ok {
		return apperrors.NotFound("Listing not found")
	}
	updated := opts.apply(current, set)
	if err := app.Repos.Listings.Update(cmdCtx.Ctx, opts.ID, updated); err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, updated, out)
}

func runListingDelete(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet("listing-delete")
	var id string
	fs.StringVar(&id, "id", "", "Listing id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "id is required")
	}
	app, err := businessApp(cmdCtx)
	if err != nil {
		return err
	}
	return app.Repos.Listings.Delete(cmdCtx.Ctx, id)
}

type dashboard struct {
	Session  stateView               `json:"session"`
	Trips    []model.TripPlan        `json:"trips,omitempty"`
	Mine     []model.PromotedListing `json:"myListings,omitempty"`
	Listings []model.PromotedListing `json:"listings"`
}

func runDashboard(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("dashboard", args)
	if err != nil {
		return err
	}
	app, st, err := settled(cmdCtx)
	if err != nil {
		return err
	}
	if err := admit(cmdCtx.Err, gate.RequireAuth(st)); err != nil {
		return err
	}

	view := dashboard{Session: viewState(st)}
	g, gctx := errgroup.WithContext(cmdCtx.Ctx)
	g.Go(func() error {
		var err error
		view.Listings, err = app.Repos.Listings.All(gctx)
		return err
	})
	if gate.HasCapability(st, gate.CapabilityTraveler) {
		g.Go(func() error {
			var err error
			view.Trips, err = app.Repos.Trips.Caller(gctx)
			return err
		})
	}
	if gate.HasCapability(st, gate.CapabilityBusiness) {
		g.Go(func() error {
			var err error
			view.Mine, err = app.Repos.Listings.Caller(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, view, out)
}

type roleView struct {
	Principal string        `json:"principal"`
	Role      auth.UserRole `json:"role"`
	Admin     bool          `json:"admin"`
}

func runRole(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("role", args)
	if err != nil {
		return err
	}
	app, err := cmdCtx.app()
	if err != nil {
		return err
	}
	view := roleView{Principal: app.Identity.Identity().String()}
	g, gctx := errgroup.WithContext(cmdCtx.Ctx)
	g.Go(func() error {
		var err error
		view.Role, err = app.Repos.Admin.CallerRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		view.Admin, err = app.Repos.Admin.IsCallerAdmin(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, view, out)
}

func adminApp(cmdCtx *commandContext) (*bootstrap.App, error) {
	app, st, err := settled(cmdCtx)
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated(st) {
		return nil, admit(cmdCtx.Err, gate.RequireAuth(st))
	}
	isAdmin, err := app.Repos.Admin.IsCallerAdmin(cmdCtx.Ctx)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		_ = writef(cmdCtx.Err, "Access Denied: This command is only available to administrators.\n")
		return nil, errGateBlocked
	}
	return app, nil
}

func runAdminProfiles(cmdCtx *commandContext, args []string) error {
	out, err := parseOnly("admin-profiles", args)
	if err != nil {
		return err
	}
	app, err := adminApp(cmdCtx)
	if err != nil {
		return err
	}
	entries, err := app.Repos.Admin.AllProfiles(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(cmdCtx.Out, entries, out)
}

func runAdminProfile(cmdCtx *commandContext, args []string) error {
	fs, out := newFlagSet("admin-profile")
	var principal string
	fs.StringVar(&principal, "principal", "", "Principal to look up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(principal) == "" {
		return apperrors.ValidationField("principal", "principal is required")
	}
	app, err := adminApp(cmdCtx)
	if err != nil {
		return err
	}
	profile, err := app.Repos.Admin.Profile(cmdCtx.Ctx, auth.Principal(principal))
	if err != nil {
		return err
	}
	if profile == nil {
		return apperrors.NotFound("Profile not found")
	}
	return printJSON(cmdCtx.Out, profile, out)
}

func runAdminAssignRole(cmdCtx *commandContext, args []string) error {
	fs, _ := newFlagSet("admin-assign-role")
	var principal, roleName string
	fs.StringVar(&principal, "principal", "", "Principal to update")
	fs.StringVar(&roleName, "role", "", "admin, user or guest")
	if err := fs.Parse(args); err != nil {
		return err
	}
	role, err := auth.ParseUserRole(roleName)
	if err != nil {
		return err
	}
	if strings.TrimSpace(principal) == "" {
		return apperrors.ValidationField("principal", "principal is required")
	}
	app, err := adminApp(cmdCtx)
	if err != nil {
		return err
	}
	return app.Repos.Admin.AssignRole(cmdCtx.Ctx, auth.Principal(principal), role)
}
