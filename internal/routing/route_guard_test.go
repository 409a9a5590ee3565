package routing

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		protected bool
		authOnly  bool
	}{
		{"manage patients is protected", "/manage-patients", true, false},
		{"nested protected path", "/manage-patients/user_1", true, false},
		{"report viewer is protected", "/report-viewer", true, false},
		{"all reports is protected", "/all-reports", true, false},
		{"login is auth only", "/login", false, true},
		{"root is neither", "/", false, false},
		{"unknown path is neither", "/about", false, false},
		{"prefix requires a path boundary", "/dashboard-public", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.path)
			if c.Protected != tt.protected {
				t.Errorf("Classify(%q).Protected = %v, want %v", tt.path, c.Protected, tt.protected)
			}
			if c.AuthOnly != tt.authOnly {
				t.Errorf("Classify(%q).AuthOnly = %v, want %v", tt.path, c.AuthOnly, tt.authOnly)
			}
		})
	}
}

func TestDecideRedirect(t *testing.T) {
	tests := []struct {
		name           string
		authenticated  bool
		role           string
		path           string
		rememberedPath string
		expectedDest   string
		expectRedirect bool
	}{
		{
			name:           "unauthenticated on protected path goes to login",
			authenticated:  false,
			path:           "/manage-patients",
			expectedDest:   LoginPath,
			expectRedirect: true,
		},
		{
			name:          "unauthenticated on public path stays",
			authenticated: false,
			path:          "/",
		},
		{
			name:          "unauthenticated on login stays",
			authenticated: false,
			path:          LoginPath,
		},
		{
			name:           "authenticated admin on login goes to admin landing",
			authenticated:  true,
			role:           "admin",
			path:           LoginPath,
			expectedDest:   AdminLanding,
			expectRedirect: true,
		},
		{
			name:           "remembered path wins over role default",
			authenticated:  true,
			role:           "admin",
			path:           LoginPath,
			rememberedPath: "/all-reports",
			expectedDest:   "/all-reports",
			expectRedirect: true,
		},
		{
			name:           "authenticated patient on root goes to report viewer",
			authenticated:  true,
			role:           "patient",
			path:           "/",
			expectedDest:   PatientLanding,
			expectRedirect: true,
		},
		{
			name:           "authenticated generic user lands on dashboard",
			authenticated:  true,
			role:           "user",
			path:           LoginPath,
			expectedDest:   DefaultLanding,
			expectRedirect: true,
		},
		{
			name:          "authenticated on protected path stays",
			authenticated: true,
			role:          "patient",
			path:          "/report-viewer",
		},
		{
			name:          "authenticated on public path stays",
			authenticated: true,
			role:          "patient",
			path:          "/about",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, redirect := DecideRedirect(tt.authenticated, tt.role, tt.path, tt.rememberedPath)
			if redirect != tt.expectRedirect {
				t.Fatalf("expected redirect=%v, got %v (dest %q)", tt.expectRedirect, redirect, dest)
			}
			if redirect && dest != tt.expectedDest {
				t.Errorf("expected destination %q, got %q", tt.expectedDest, dest)
			}
		})
	}
}

func TestDecideRedirect_IsPure(t *testing.T) {
	// Same inputs always produce the same decision
	for i := 0; i < 3; i++ {
		dest, ok := DecideRedirect(true, "admin", LoginPath, "/all-reports")
		if !ok || dest != "/all-reports" {
			t.Fatalf("iteration %d: got (%q, %v)", i, dest, ok)
		}
	}
}
