package connectrpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// Client is a ports.RemoteClient bound to one identity. Remote failures are returned
// as *connect.Error so callers can surface the remote message.
type Client struct {
	principal auth.Principal

	assignCallerUserRole             *connect.Client[AssignRoleRequest, Empty]
	createProfile                    *connect.Client[CreateProfileRequest, Empty]
	createPromotedListing            *connect.Client[ListingRequest, Empty]
	createTrip                       *connect.Client[CreateTripRequest, TripPlanResponse]
	deletePromotedListing            *connect.Client[IDRequest, Empty]
	filterPromotedListingsByCategory *connect.Client[CategoryRequest, ListingsResponse]
	getAllListingsSortedByName       *connect.Client[Empty, ListingsResponse]
	getAllPromotedListings           *connect.Client[Empty, ListingsResponse]
	getAllTripPlans                  *connect.Client[Empty, TripPlansResponse]
	getAllUserProfiles               *connect.Client[Empty, ProfilesResponse]
	getCallerPromotedListings        *connect.Client[Empty, ListingsResponse]
	getCallerTripPlans               *connect.Client[Empty, TripPlansResponse]
	getCallerUserProfile             *connect.Client[Empty, ProfileResponse]
	getCallerUserRole                *connect.Client[Empty, RoleResponse]
	getUserProfile                   *connect.Client[PrincipalRequest, ProfileResponse]
	isCallerAdmin                    *connect.Client[Empty, BoolResponse]
	saveCallerUserProfile            *connect.Client[SaveProfileRequest, Empty]
	updatePromotedListing            *connect.Client[UpdateListingRequest, Empty]
}

var _ ports.RemoteClient = (*Client)(nil)

// NewClient constructs a client for baseURL that presents id's credential on every call.
func NewClient(httpClient connect.HTTPClient, baseURL string, id auth.Identity, opts ...connect.ClientOption) *Client {
	base := strings.TrimRight(baseURL, "/")
	options := append([]connect.ClientOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(bearerInterceptor(id.Credential)),
	}, opts...)

	return &Client{
		principal:                        id.Principal,
		assignCallerUserRole:             connect.NewClient[AssignRoleRequest, Empty](httpClient, base+Procedure(MethodAssignCallerUserRole), options...),
		createProfile:                    connect.NewClient[CreateProfileRequest, Empty](httpClient, base+Procedure(MethodCreateProfile), options...),
		createPromotedListing:            connect.NewClient[ListingRequest, Empty](httpClient, base+Procedure(MethodCreatePromotedListing), options...),
		createTrip:                       connect.NewClient[CreateTripRequest, TripPlanResponse](httpClient, base+Procedure(MethodCreateTrip), options...),
		deletePromotedListing:            connect.NewClient[IDRequest, Empty](httpClient, base+Procedure(MethodDeletePromotedListing), options...),
		filterPromotedListingsByCategory: connect.NewClient[CategoryRequest, ListingsResponse](httpClient, base+Procedure(MethodFilterPromotedListingsByCategory), options...),
		getAllListingsSortedByName:       connect.NewClient[Empty, ListingsResponse](httpClient, base+Procedure(MethodGetAllListingsSortedByName), options...),
		getAllPromotedListings:           connect.NewClient[Empty, ListingsResponse](httpClient, base+Procedure(MethodGetAllPromotedListings), options...),
		getAllTripPlans:                  connect.NewClient[Empty, TripPlansResponse](httpClient, base+Procedure(MethodGetAllTripPlans), options...),
		getAllUserProfiles:               connect.NewClient[Empty, ProfilesResponse](httpClient, base+Procedure(MethodGetAllUserProfiles), options...),
		getCallerPromotedListings:        connect.NewClient[Empty, ListingsResponse](httpClient, base+Procedure(MethodGetCallerPromotedListings), options...),
		getCallerTripPlans:               connect.NewClient[Empty, TripPlansResponse](httpClient, base+Procedure(MethodGetCallerTripPlans), options...),
		getCallerUserProfile:             connect.NewClient[Empty, ProfileResponse](httpClient, base+Procedure(MethodGetCallerUserProfile), options...),
		getCallerUserRole:                connect.NewClient[Empty, RoleResponse](httpClient, base+Procedure(MethodGetCallerUserRole), options...),
		getUserProfile:                   connect.NewClient[PrincipalRequest, ProfileResponse](httpClient, base+Procedure(MethodGetUserProfile), options...),
		isCallerAdmin:                    connect.NewClient[Empty, BoolResponse](httpClient, base+Procedure(MethodIsCallerAdmin), options...),
		saveCallerUserProfile:            connect.NewClient[SaveProfileRequest, Empty](httpClient, base+Procedure(MethodSaveCallerUserProfile), options...),
		updatePromotedListing:            connect.NewClient[UpdateListingRequest, Empty](httpClient, base+Procedure(MethodUpdatePromotedListing), options...),
	}
}

// Principal returns the identity the client was bound to.
func (c *Client) Principal() auth.Principal { return c.principal }

// bearerInterceptor attaches the credential to outgoing requests. Anonymous clients
// send none.
func bearerInterceptor(credential string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient && credential != "" {
				req.Header().Set("Authorization", "Bearer "+credential)
			}
			return next(ctx, req)
		}
	}
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) AssignCallerUserRole(ctx context.Context, user auth.Principal, role auth.UserRole) error {
	_, err := call(ctx, c.assignCallerUserRole, &AssignRoleRequest{User: user, Role: role})
	return err
}

func (c *Client) CreateProfile(ctx context.Context, role, name string) error {
	_, err := call(ctx, c.createProfile, &CreateProfileRequest{Role: role, Name: name})
	return err
}

func (c *Client) CreatePromotedListing(ctx context.Context, listing model.PromotedListing) error {
	_, err := call(ctx, c.createPromotedListing, &ListingRequest{Listing: listing})
	return err
}

func (c *Client) CreateTrip(ctx context.Context, trip model.TripDetails) (model.TripPlan, error) {
	res, err := call(ctx, c.createTrip, &CreateTripRequest{Trip: trip})
	if err != nil {
		return model.TripPlan{}, err
	}
	return res.Plan, nil
}

func (c *Client) DeletePromotedListing(ctx context.Context, id string) error {
	_, err := call(ctx, c.deletePromotedListing, &IDRequest{ID: id})
	return err
}

func (c *Client) FilterPromotedListingsByCategory(ctx context.Context, category string) ([]model.PromotedListing, error) {
	res, err := call(ctx, c.filterPromotedListingsByCategory, &CategoryRequest{Category: category})
	if err != nil {
		return nil, err
	}
	return res.Listings, nil
}

func (c *Client) GetAllListingsSortedByName(ctx context.Context) ([]model.PromotedListing, error) {
	res, err := call(ctx, c.getAllListingsSortedByName, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Listings, nil
}

func (c *Client) GetAllPromotedListings(ctx context.Context) ([]model.PromotedListing, error) {
	res, err := call(ctx, c.getAllPromotedListings, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Listings, nil
}

func (c *Client) GetAllTripPlans(ctx context.Context) ([]model.TripPlan, error) {
	res, err := call(ctx, c.getAllTripPlans, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Plans, nil
}

func (c *Client) GetAllUserProfiles(ctx context.Context) ([]model.ProfileEntry, error) {
	res, err := call(ctx, c.getAllUserProfiles, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Profiles, nil
}

func (c *Client) GetCallerPromotedListings(ctx context.Context) ([]model.PromotedListing, error) {
	res, err := call(ctx, c.getCallerPromotedListings, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Listings, nil
}

func (c *Client) GetCallerTripPlans(ctx context.Context) ([]model.TripPlan, error) {
	res, err := call(ctx, c.getCallerTripPlans, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Plans, nil
}

func (c *Client) GetCallerUserProfile(ctx context.Context) (*model.UserProfile, error) {
	res, err := call(ctx, c.getCallerUserProfile, &Empty{})
	if err != nil {
		return nil, err
	}
	return res.Profile, nil
}

func (c *Client) GetCallerUserRole(ctx context.Context) (auth.UserRole, error) {
	res, err := call(ctx, c.getCallerUserRole, &Empty{})
	if err != nil {
		return "", err
	}
	return res.Role, nil
}

func (c *Client) GetUserProfile(ctx context.Context, user auth.Principal) (*model.UserProfile, error) {
	res, err := call(ctx, c.getUserProfile, &PrincipalRequest{User: user})
	if err != nil {
		return nil, err
	}
	return res.Profile, nil
}

func (c *Client) IsCallerAdmin(ctx context.Context) (bool, error) {
	res, err := call(ctx, c.isCallerAdmin, &Empty{})
	if err != nil {
		return false, err
	}
	return res.Value, nil
}

func (c *Client) SaveCallerUserProfile(ctx context.Context, profile model.UserProfile) error {
	_, err := call(ctx, c.saveCallerUserProfile, &SaveProfileRequest{Profile: profile})
	return err
}

func (c *Client) UpdatePromotedListing(ctx context.Context, id string, listing model.PromotedListing) error {
	_, err := call(ctx, c.updatePromotedListing, &UpdateListingRequest{ID: id, Listing: listing})
	return err
}

// FactoryOptions configure a Factory.
type FactoryOptions struct {
	BaseURL    string
	HTTPClient connect.HTTPClient
	// Timeout bounds each HTTP request when HTTPClient is not supplied.
	Timeout time.Duration
}

// Factory builds clients for the remote store at a fixed base URL.
type Factory struct {
	baseURL    string
	httpClient connect.HTTPClient
}

var _ ports.ClientFactory = (*Factory)(nil)

// NewFactory validates opts and constructs a Factory.
func NewFactory(opts FactoryOptions) (*Factory, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("connectrpc: base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Factory{baseURL: base, httpClient: httpClient}, nil
}

// NewClient implements ports.ClientFactory. Construction is local; the first call
// reaches the network.
func (f *Factory) NewClient(ctx context.Context, id auth.Identity) (ports.RemoteClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id.IsAnonymous() {
		id = auth.Anonymous()
	}
	return NewClient(f.httpClient, f.baseURL, id), nil
}
