package strategy

import (
	"testing"

	"github.com/prathamjain99/Quant/internal/user"
)

func TestCanView(t *testing.T) {
	owner := &user.User{ID: 1, Role: user.RoleResearcher}
	otherResearcher := &user.User{ID: 2, Role: user.RoleResearcher}
	pm := &user.User{ID: 3, Role: user.RolePortfolioManager}
	client := &user.User{ID: 4, Role: user.RoleClient}

	private := &Strategy{ID: 10, OwnerID: 1, IsPublic: false}
	public := &Strategy{ID: 11, OwnerID: 1, IsPublic: true}

	cases := []struct {
		name     string
		viewer   *user.User
		strategy *Strategy
		want     bool
	}{
		{"owner sees own private", owner, private, true},
		{"owner sees own public", owner, public, true},
		{"other researcher cannot see private", otherResearcher, private, false},
		{"other researcher cannot see public", otherResearcher, public, false},
		{"pm sees private", pm, private, true},
		{"pm sees public", pm, public, true},
		{"client cannot see private", client, private, false},
		{"client sees public", client, public, true},
		{"unknown role denied", &user.User{ID: 5, Role: "AUDITOR"}, public, false},
		{"nil viewer denied", nil, public, false},
		{"nil strategy denied", owner, nil, false},
	}
	for _, tc := range cases {
		if got := CanView(tc.viewer, tc.strategy); got != tc.want {
			t.Errorf("%s: CanView = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanModify(t *testing.T) {
	private := &Strategy{ID: 10, OwnerID: 1, IsPublic: false}

	cases := []struct {
		name   string
		viewer *user.User
		want   bool
	}{
		{"owning researcher", &user.User{ID: 1, Role: user.RoleResearcher}, true},
		{"other researcher", &user.User{ID: 2, Role: user.RoleResearcher}, false},
		{"pm cannot modify", &user.User{ID: 1, Role: user.RolePortfolioManager}, false},
		{"client cannot modify", &user.User{ID: 1, Role: user.RoleClient}, false},
	}
	for _, tc := range cases {
		if got := CanModify(tc.viewer, private); got != tc.want {
			t.Errorf("%s: CanModify = %v, want %v", tc.name, got, tc.want)
		}
	}
}
