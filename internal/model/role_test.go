package model

import "testing"

func TestRoleOrdering(t *testing.T) {
	if !RoleAdministrator.Above(RoleModerator) || !RoleModerator.Above(RoleMember) {
		t.Fatal("hierarchy must be Administrator > Moderator > Member")
	}
	if !RoleMember.AtLeast(RoleMember) {
		t.Error("AtLeast must be reflexive")
	}
	if RoleMember.AtLeast(RoleModerator) {
		t.Error("Member must not reach Moderator")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleMember, RoleModerator, RoleAdministrator} {
		if !r.Valid() {
			t.Errorf("%s must be valid", r)
		}
	}
	for _, r := range []Role{"", "admin", "member", "Superuser"} {
		if Role(r).Valid() {
			t.Errorf("%q must be invalid", r)
		}
		if Role(r).AtLeast(RoleMember) {
			t.Errorf("%q must rank below Member", r)
		}
	}
}
