package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/tripmate/tripmate-client/internal/gate"
	"github.com/tripmate/tripmate-client/internal/session"
)

// errGateBlocked marks a command refused by the session state rather than failed.
var errGateBlocked = errors.New("command not available in the current session")

type outputOptions struct {
	Query string
}

func newFlagSet(name string) (*flag.FlagSet, *outputOptions) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var out outputOptions
	fs.StringVar(&out.Query, "query", "", "JMESPath expression applied to the JSON output")
	return fs, &out
}

// printJSON writes v as indented JSON, reduced by the query expression when set.
func printJSON(w io.Writer, v any, opts *outputOptions) error {
	if opts != nil && strings.TrimSpace(opts.Query) != "" {
		filtered, err := applyQuery(v, opts.Query)
		if err != nil {
			return err
		}
		v = filtered
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func applyQuery(v any, expr string) (any, error) {
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid --query expression: %w", err)
	}
	// Round trip through JSON so the expression sees field names, not Go names.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	res, err := jmespath.Search(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate --query expression: %w", err)
	}
	return res, nil
}

// admit renders a gate decision. Anything other than Admit is printed to w and
// returned as errGateBlocked.
func admit(w io.Writer, d gate.Decision) error {
	switch d := d.(type) {
	case gate.Admit:
		return nil
	case gate.Loading:
		if d.Err != nil {
			return fmt.Errorf("session not ready: %w", d.Err)
		}
		_ = writef(w, "Session is still loading, try again.\n")
	case gate.PromptLogin:
		_ = writef(w, "%s: %s. Run `tripmate login` to continue.\n", d.Title, d.Message)
		if d.Err != nil {
			_ = writef(w, "Last login attempt failed: %v\n", d.Err)
		}
	case gate.ProfileSetup:
		_ = writef(w, "Complete your profile first: tripmate profile-create --role traveler|business --name NAME\n")
	case gate.AccessDenied:
		_ = writef(w, "%s: %s\n", d.Title, d.Message)
	}
	return errGateBlocked
}

// stateView is the JSON shape of a session state.
type stateView struct {
	State     string `json:"state"`
	Principal string `json:"principal,omitempty"`
	Profile   any    `json:"profile,omitempty"`
	Error     string `json:"error,omitempty"`
}

func viewState(s session.State) stateView {
	v := stateView{State: s.Kind().String()}
	if p := session.PrincipalOf(s); !p.IsAnonymous() {
		v.Principal = p.String()
	}
	if profile, ok := session.ProfileOf(s); ok {
		v.Profile = profile
	}
	switch st := s.(type) {
	case session.Initializing:
		if st.Err != nil {
			v.Error = st.Err.Error()
		}
	case session.Unauthenticated:
		if st.Err != nil {
			v.Error = st.Err.Error()
		}
	}
	return v
}
