// Package accesscontrol decides what a request may do based purely on
// its path and the session role. The decision function is total and
// stateless: the same (path, role) pair always yields the same result.
package accesscontrol

import (
	"strings"

	"github.com/mealvoice/feedbackhub/internal/domain/identity"
)

const (
	LoginPath    = "/login"
	AuthPrefix   = "/auth"
	AdminPrefix  = "/admin"
	SubmitPrefix = "/feedback"
	AdminHome    = "/admin/dashboard"
	SubmitHome   = "/feedback"
)

type Decision struct {
	Allow  bool
	Target string // redirect target when not allowed
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{Target: target}
}

// Decide evaluates the access rules. role is the session role, or ""
// when there is no session. Unrecognized roles fail closed and are
// sent back to login, same as having no session at all.
func Decide(path, role string) Decision {
	// login and the auth endpoints are always reachable
	if path == LoginPath || hasPrefix(path, AuthPrefix) {
		return allow()
	}

	if role == "" || !identity.KnownRole(role) {
		return redirect(LoginPath)
	}

	if hasPrefix(path, AdminPrefix) && role != identity.RoleAdmin {
		return redirect(SubmitHome)
	}

	if hasPrefix(path, SubmitPrefix) && role != identity.RoleUser {
		return redirect(AdminHome)
	}

	return allow()
}

// hasPrefix matches whole path segments, so /feedbackx does not count
// as being under /feedback.
func hasPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}

	return strings.HasPrefix(path, prefix+"/")
}
