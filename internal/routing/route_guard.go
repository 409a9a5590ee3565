// Package routing classifies portal paths and computes redirect
// destinations. Decisions are pure functions of role, path and the
// remembered intended path; no hidden mutable state participates.
package routing

import "strings"

// LoginPath is the only auth-only page
const LoginPath = "/login"

// Landing pages by role
const (
	AdminLanding   = "/manage-patients"
	PatientLanding = "/report-viewer"
	DefaultLanding = "/dashboard"
)

// protectedPaths is the fixed allow-list of pages that require an
// authenticated session. A path matches on equality or prefix.
var protectedPaths = []string{
	"/dashboard",
	"/report-viewer",
	"/manage-users",
	"/manage-patients",
	"/all-reports",
	"/upload-report",
	"/patient-records",
}

// Classification describes how a path relates to authentication
type Classification struct {
	Protected bool
	AuthOnly  bool
}

// Classify reports whether a path requires authentication or is only
// reachable while unauthenticated
func Classify(path string) Classification {
	c := Classification{AuthOnly: path == LoginPath}
	for _, p := range protectedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			c.Protected = true
			break
		}
	}
	return c
}

// landingPath returns the role's default destination after login
func landingPath(role string) string {
	switch role {
	case "admin":
		return AdminLanding
	case "patient":
		return PatientLanding
	default:
		return DefaultLanding
	}
}

// DecideRedirect computes the redirect destination for the current auth
// state and path. The second return is false when no redirect applies.
// A remembered intended path always wins over the role default.
func DecideRedirect(authenticated bool, role, path, rememberedPath string) (string, bool) {
	c := Classify(path)

	if !authenticated {
		if c.Protected {
			return LoginPath, true
		}
		return "", false
	}

	if c.AuthOnly || path == "/" {
		if rememberedPath != "" {
			return rememberedPath, true
		}
		return landingPath(role), true
	}

	return "", false
}
