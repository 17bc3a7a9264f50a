package grouppolicy_test

import (
	"testing"
	"time"

	"github.com/dalemusser/chordhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/chordhub/internal/domain/models"
)

func member(role string, promotedAt *time.Time) *models.GroupMembership {
	return &models.GroupMembership{Role: role, PromotedAt: promotedAt}
}

func ts(unix int64) *time.Time {
	t := time.Unix(unix, 0).UTC()
	return &t
}

func TestResolve_NonMemberHasNothing(t *testing.T) {
	d := grouppolicy.Resolve(nil, member(models.RoleMember, nil))
	if d != (grouppolicy.Decision{}) {
		t.Errorf("nil actor: expected empty decision, got %+v", d)
	}
}

func TestResolve_MemberHasNothing(t *testing.T) {
	d := grouppolicy.Resolve(member(models.RoleMember, nil), member(models.RoleMember, nil))
	if d != (grouppolicy.Decision{}) {
		t.Errorf("member actor: expected empty decision, got %+v", d)
	}
}

func TestResolve_OwnerManagesEveryone(t *testing.T) {
	owner := member(models.RoleOwner, nil)

	for _, tc := range []struct {
		name   string
		target *models.GroupMembership
	}{
		{"admin target", member(models.RoleAdmin, ts(100))},
		{"member target", member(models.RoleMember, nil)},
	} {
		d := grouppolicy.Resolve(owner, tc.target)
		if !d.CanManage || !d.CanRemove {
			t.Errorf("%s: owner should manage and remove, got %+v", tc.name, d)
		}
		if !d.CanApproveRequests || !d.CanEditSettings || !d.CanDeleteGroup || !d.CanTransferOwnership {
			t.Errorf("%s: owner missing group-level permissions: %+v", tc.name, d)
		}
	}
}

func TestResolve_OwnerPromoteDemoteByTargetRole(t *testing.T) {
	owner := member(models.RoleOwner, nil)

	d := grouppolicy.Resolve(owner, member(models.RoleMember, nil))
	if !d.CanPromote || d.CanDemote {
		t.Errorf("member target: want promote only, got %+v", d)
	}

	d = grouppolicy.Resolve(owner, member(models.RoleAdmin, ts(100)))
	if d.CanPromote || !d.CanDemote {
		t.Errorf("admin target: want demote only, got %+v", d)
	}
}

func TestResolve_AdminManagesMembers(t *testing.T) {
	admin := member(models.RoleAdmin, ts(100))
	d := grouppolicy.Resolve(admin, member(models.RoleMember, nil))

	if !d.CanManage || !d.CanPromote || !d.CanRemove {
		t.Errorf("admin over member: expected manage/promote/remove, got %+v", d)
	}
	if !d.CanApproveRequests {
		t.Error("admin should approve join requests")
	}
	if d.CanEditSettings || d.CanDeleteGroup || d.CanTransferOwnership {
		t.Errorf("admin must not get group-level owner permissions: %+v", d)
	}
}

func TestResolve_AdminSeniority(t *testing.T) {
	senior := member(models.RoleAdmin, ts(100))
	junior := member(models.RoleAdmin, ts(200))

	// Senior admin (earlier promotion) manages the junior one.
	d := grouppolicy.Resolve(senior, junior)
	if !d.CanManage || !d.CanDemote || !d.CanRemove {
		t.Errorf("senior over junior: expected manage/demote/remove, got %+v", d)
	}

	// The junior admin gets nothing against the senior one.
	d = grouppolicy.Resolve(junior, senior)
	if d.CanManage || d.CanDemote || d.CanRemove {
		t.Errorf("junior over senior: expected nothing, got %+v", d)
	}
}

func TestResolve_AdminSeniorityTies(t *testing.T) {
	// Equal promotion timestamps: neither admin is senior, neither may act.
	a := member(models.RoleAdmin, ts(100))
	b := member(models.RoleAdmin, ts(100))

	if d := grouppolicy.Resolve(a, b); d.CanManage {
		t.Errorf("equal promoted_at: expected no management, got %+v", d)
	}
	if d := grouppolicy.Resolve(b, a); d.CanManage {
		t.Errorf("equal promoted_at (reversed): expected no management, got %+v", d)
	}

	// A missing promoted_at on either side also permits nothing.
	if d := grouppolicy.Resolve(member(models.RoleAdmin, nil), b); d.CanManage {
		t.Errorf("actor without promoted_at: expected no management, got %+v", d)
	}
	if d := grouppolicy.Resolve(a, member(models.RoleAdmin, nil)); d.CanManage {
		t.Errorf("target without promoted_at: expected no management, got %+v", d)
	}
}

func TestResolve_AdminNeverManagesOwner(t *testing.T) {
	admin := member(models.RoleAdmin, ts(100))
	d := grouppolicy.Resolve(admin, member(models.RoleOwner, nil))

	if d.CanManage || d.CanDemote || d.CanRemove || d.CanPromote {
		t.Errorf("admin over owner: expected nothing, got %+v", d)
	}
}

// Scenario from the governance design review: owner U1, admins U2
// (promoted at 100) and U3 (promoted at 200).
func TestResolve_SenioritySequence(t *testing.T) {
	u1 := member(models.RoleOwner, nil)
	u2 := member(models.RoleAdmin, ts(100))
	u3 := member(models.RoleAdmin, ts(200))

	if grouppolicy.Resolve(u3, u2).CanManage {
		t.Error("U3 (junior) must not manage U2 (senior)")
	}
	if !grouppolicy.Resolve(u2, u3).CanManage {
		t.Error("U2 (senior) should manage U3 (junior)")
	}
	if !grouppolicy.Resolve(u1, u2).CanManage || !grouppolicy.Resolve(u1, u3).CanManage {
		t.Error("owner should manage both admins")
	}
}

func TestResolve_NilTargetGivesStandingOnly(t *testing.T) {
	d := grouppolicy.Resolve(member(models.RoleAdmin, ts(100)), nil)
	if !d.CanApproveRequests {
		t.Error("admin with nil target should still approve requests")
	}
	if d.CanManage || d.CanPromote || d.CanDemote || d.CanRemove {
		t.Errorf("nil target must not grant per-target actions: %+v", d)
	}
}
