package connectrpc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// CallerStore hands out the store's view for one principal.
type CallerStore interface {
	ForCaller(p auth.Principal) ports.RemoteClient
}

// HandlerOptions groups dependencies for NewHandler.
type HandlerOptions struct {
	Store    CallerStore
	Verifier ports.CredentialVerifier
	Logger   *slog.Logger
}

type principalKey struct{}

// WithPrincipal returns a context carrying the verified caller.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the verified caller, or the anonymous principal.
func PrincipalFrom(ctx context.Context) auth.Principal {
	if p, ok := ctx.Value(principalKey{}).(auth.Principal); ok && !p.IsAnonymous() {
		return p
	}
	return auth.AnonymousPrincipal
}

type server struct {
	store  CallerStore
	logger *slog.Logger
	opts   []connect.HandlerOption
}

// NewHandler serves every remote store procedure. Each call is evaluated as the
// principal its bearer credential verifies to; calls without one are anonymous.
func NewHandler(opts HandlerOptions) (http.Handler, error) {
	if opts.Store == nil {
		return nil, errors.New("connectrpc: store is required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("connectrpc: credential verifier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{
		store:  opts.Store,
		logger: logger.With("component", "connectrpc"),
		opts: []connect.HandlerOption{
			connect.WithCodec(jsonCodec{}),
			connect.WithInterceptors(authInterceptor(opts.Verifier)),
		},
	}

	r := chi.NewRouter()
	register(r, s, MethodAssignCallerUserRole, func(ctx context.Context, rc ports.RemoteClient, req *AssignRoleRequest) (*Empty, error) {
		return &Empty{}, rc.AssignCallerUserRole(ctx, req.User, req.Role)
	})
	register(r, s, MethodCreateProfile, func(ctx context.Context, rc ports.RemoteClient, req *CreateProfileRequest) (*Empty, error) {
		return &Empty{}, rc.CreateProfile(ctx, req.Role, req.Name)
	})
	register(r, s, MethodCreatePromotedListing, func(ctx context.Context, rc ports.RemoteClient, req *ListingRequest) (*Empty, error) {
		return &Empty{}, rc.CreatePromotedListing(ctx, req.Listing)
	})
	register(r, s, MethodCreateTrip, func(ctx context.Context, rc ports.RemoteClient, req *CreateTripRequest) (*TripPlanResponse, error) {
		plan, err := rc.CreateTrip(ctx, req.Trip)
		return &TripPlanResponse{Plan: plan}, err
	})
	register(r, s, MethodDeletePromotedListing, func(ctx context.Context, rc ports.RemoteClient, req *IDRequest) (*Empty, error) {
		return &Empty{}, rc.DeletePromotedListing(ctx, req.ID)
	})
	register(r, s, MethodFilterPromotedListingsByCategory, func(ctx context.Context, rc ports.RemoteClient, req *CategoryRequest) (*ListingsResponse, error) {
		out, err := rc.FilterPromotedListingsByCategory(ctx, req.Category)
		return &ListingsResponse{Listings: out}, err
	})
	register(r, s, MethodGetAllListingsSortedByName, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*ListingsResponse, error) {
		out, err := rc.GetAllListingsSortedByName(ctx)
		return &ListingsResponse{Listings: out}, err
	})
	register(r, s, MethodGetAllPromotedListings, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*ListingsResponse, error) {
		out, err := rc.GetAllPromotedListings(ctx)
		return &ListingsResponse{Listings: out}, err
	})
	register(r, s, MethodGetAllTripPlans, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*TripPlansResponse, error) {
		out, err := rc.GetAllTripPlans(ctx)
		return &TripPlansResponse{Plans: out}, err
	})
	register(r, s, MethodGetAllUserProfiles, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*ProfilesResponse, error) {
		out, err := rc.GetAllUserProfiles(ctx)
		return &ProfilesResponse{Profiles: out}, err
	})
	register(r, s, MethodGetCallerPromotedListings, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*ListingsResponse, error) {
		out, err := rc.GetCallerPromotedListings(ctx)
		return &ListingsResponse{Listings: out}, err
	})
	register(r, s, MethodGetCallerTripPlans, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*TripPlansResponse, error) {
		out, err := rc.GetCallerTripPlans(ctx)
		return &TripPlansResponse{Plans: out}, err
	})
	register(r, s, MethodGetCallerUserProfile, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*ProfileResponse, error) {
		out, err := rc.GetCallerUserProfile(ctx)
		return &ProfileResponse{Profile: out}, err
	})
	register(r, s, MethodGetCallerUserRole, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*RoleResponse, error) {
		out, err := rc.GetCallerUserRole(ctx)
		return &RoleResponse{Role: out}, err
	})
	register(r, s, MethodGetUserProfile, func(ctx context.Context, rc ports.RemoteClient, req *PrincipalRequest) (*ProfileResponse, error) {
		out, err := rc.GetUserProfile(ctx, req.User)
		return &ProfileResponse{Profile: out}, err
	})
	register(r, s, MethodIsCallerAdmin, func(ctx context.Context, rc ports.RemoteClient, _ *Empty) (*BoolResponse, error) {
		out, err := rc.IsCallerAdmin(ctx)
		return &BoolResponse{Value: out}, err
	})
	register(r, s, MethodSaveCallerUserProfile, func(ctx context.Context, rc ports.RemoteClient, req *SaveProfileRequest) (*Empty, error) {
		return &Empty{}, rc.SaveCallerUserProfile(ctx, req.Profile)
	})
	register(r, s, MethodUpdatePromotedListing, func(ctx context.Context, rc ports.RemoteClient, req *UpdateListingRequest) (*Empty, error) {
		return &Empty{}, rc.UpdatePromotedListing(ctx, req.ID, req.Listing)
	})
	return r, nil
}

func register[Req, Res any](r chi.Router, s *server, method string, op func(context.Context, ports.RemoteClient, *Req) (*Res, error)) {
	procedure := Procedure(method)
	r.Handle(procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			caller := PrincipalFrom(ctx)
			res, err := op(ctx, s.store.ForCaller(caller), req.Msg)
			if err != nil {
				s.logger.Debug("call failed", "method", method, "principal", caller.String(), "error", err)
				return nil, ToConnectError(err)
			}
			return connect.NewResponse(res), nil
		}, s.opts...))
}

// authInterceptor resolves the bearer credential to a principal before the call runs.
func authInterceptor(v ports.CredentialVerifier) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}
			token := bearerToken(req.Header().Get("Authorization"))
			p, err := v.Verify(ctx, token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid credential"))
			}
			return next(WithPrincipal(ctx, p), req)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	h := strings.TrimSpace(header)
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// ToConnectError maps an application error onto a connect code, keeping its message
// as the remote message.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	msg := apperrors.RemoteMessage(err, "internal error")
	return connect.NewError(codeFor(apperrors.GetCode(err)), errors.New(msg))
}

func codeFor(code apperrors.ErrorCode) connect.Code {
	switch code {
	case apperrors.ErrCodeNotFound:
		return connect.CodeNotFound
	case apperrors.ErrCodeForbidden:
		return connect.CodePermissionDenied
	case apperrors.ErrCodeValidation:
		return connect.CodeInvalidArgument
	case apperrors.ErrCodeConflict:
		return connect.CodeAlreadyExists
	case apperrors.ErrCodeTimeout:
		return connect.CodeDeadlineExceeded
	case apperrors.ErrCodeCanceled:
		return connect.CodeCanceled
	default:
		return connect.CodeInternal
	}
}
