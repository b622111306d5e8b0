package router

import (
	"strings"

	"github.com/AQUACY/AGHIMS/pkg/types"
)

// Route declares the static per-route access metadata. The table is
// built once at construction time and immutable thereafter; absence of
// a constraint field means no constraint of that kind.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
	// RequiresRole restricts the route to one exact role
	RequiresRole string
	// AllowedRoles restricts the route to a set of roles (Admin always
	// passes)
	AllowedRoles []string
}

const (
	// LoginPath is the unauthenticated entry view
	LoginPath = "/login"
	// LandingPath is the default landing view after sign-in
	LandingPath = "/"
)

// Table is the application route table
var Table = []Route{
	{Path: "/login", Name: "Login"},
	{Path: "/", Name: "Dashboard", RequiresAuth: true},
	{Path: "/profile", Name: "UserProfile", RequiresAuth: true},
	{Path: "/patients/register", Name: "PatientRegistration", RequiresAuth: true,
		AllowedRoles: []string{types.RoleRecords, types.RoleAdmin, types.RolePA, types.RoleDoctor}},
	{Path: "/patients/:cardNumber", Name: "PatientProfile", RequiresAuth: true},
	{Path: "/patients/search/results", Name: "PatientSearchResults", RequiresAuth: true},
	{Path: "/encounters/calendar", Name: "EncountersCalendar", RequiresAuth: true},
	{Path: "/vitals", Name: "Vitals", RequiresAuth: true,
		AllowedRoles: []string{types.RoleNurse, types.RoleDoctor, types.RolePA, types.RoleAdmin}},
	{Path: "/consultation/:encounterId", Name: "Consultation", RequiresAuth: true,
		AllowedRoles: []string{types.RoleNurse, types.RoleDoctor, types.RolePA, types.RoleAdmin}},
	{Path: "/billing/:encounterId", Name: "Billing", RequiresAuth: true,
		AllowedRoles: []string{types.RoleBilling, types.RoleAdmin}},
	{Path: "/pharmacy", Name: "Pharmacy", RequiresAuth: true,
		AllowedRoles: []string{types.RolePharmacy, types.RolePharmacyHead, types.RoleAdmin}},
	{Path: "/lab", Name: "Lab", RequiresAuth: true,
		AllowedRoles: []string{types.RoleLab, types.RoleAdmin}},
	{Path: "/scan", Name: "Scan", RequiresAuth: true,
		AllowedRoles: []string{types.RoleScan, types.RoleAdmin}},
	{Path: "/xray", Name: "Xray", RequiresAuth: true,
		AllowedRoles: []string{types.RoleXray, types.RoleAdmin}},
	{Path: "/claims", Name: "Claims", RequiresAuth: true,
		AllowedRoles: []string{types.RoleClaims, types.RoleAdmin}},
	{Path: "/claims/edit/:claimId", Name: "EditClaim", RequiresAuth: true,
		AllowedRoles: []string{types.RoleClaims, types.RoleAdmin}},
	{Path: "/admin/price-list", Name: "PriceListManagement", RequiresAuth: true,
		AllowedRoles: []string{types.RoleAdmin, types.RolePharmacyHead}},
	{Path: "/admin/staff", Name: "StaffManagement", RequiresAuth: true,
		RequiresRole: types.RoleAdmin},
	{Path: "/admin/patient-upload", Name: "PatientUpload", RequiresAuth: true,
		RequiresRole: types.RoleAdmin},
	{Path: "/ipd", Name: "IPD", RequiresAuth: true,
		AllowedRoles: []string{types.RoleNurse, types.RoleDoctor, types.RolePA, types.RoleAdmin}},
}

// Lookup resolves a concrete path against the route table. Pattern
// segments starting with ':' match any single segment; an optional
// trailing parameter may be omitted. Unknown paths resolve to an
// unconstrained route, matching the original application's behavior of
// applying no metadata to unmatched navigation.
func Lookup(path string) Route {
	for _, route := range Table {
		if matches(route.Path, path) {
			return route
		}
	}
	return Route{Path: path}
}

// matches compares a route pattern against a concrete path
func matches(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	// A single trailing parameter may be omitted
	if len(pathParts) == len(patternParts)-1 && strings.HasPrefix(patternParts[len(patternParts)-1], ":") {
		patternParts = patternParts[:len(patternParts)-1]
	}

	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}
