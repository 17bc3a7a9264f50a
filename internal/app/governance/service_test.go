package governance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/chordhub/internal/app/governance"
	membershipstore "github.com/dalemusser/chordhub/internal/app/store/memberships"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/dalemusser/chordhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*governance.Service, *testutil.Fixtures, *membershipstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := governance.New(db, zap.NewNop(), nil)
	return svc, testutil.NewFixtures(t, db), membershipstore.New(db)
}

func mustRole(t *testing.T, ctx context.Context, ms *membershipstore.Store, groupID, userID primitive.ObjectID, want string) *models.GroupMembership {
	t.Helper()
	m, err := ms.Get(ctx, groupID, userID)
	if err != nil {
		t.Fatalf("membership of %s: %v", userID.Hex(), err)
	}
	if m.Role != want {
		t.Fatalf("role of %s: got %q, want %q", userID.Hex(), m.Role, want)
	}
	return m
}

func countOwners(t *testing.T, ctx context.Context, ms *membershipstore.Store, groupID primitive.ObjectID) int {
	t.Helper()
	all, err := ms.ListByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	n := 0
	for _, m := range all {
		if m.Role == models.RoleOwner {
			n++
		}
	}
	return n
}

func TestCreateGroupInstallsOwner(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Ada", "ada@test.com")

	g, err := svc.CreateGroup(ctx, creator.ID, "Brass Section", "", "", models.JoinPolicyApproval)
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if g.Slug != "brass-section" {
		t.Errorf("slug: got %q, want %q", g.Slug, "brass-section")
	}

	mustRole(t, ctx, ms, g.ID, creator.ID, models.RoleOwner)
	if n := countOwners(t, ctx, ms, g.ID); n != 1 {
		t.Errorf("owner count: got %d, want 1", n)
	}
}

func TestCreateGroupRejectsBadJoinPolicy(t *testing.T) {
	svc, f, _ := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Ada", "ada@test.com")

	_, err := svc.CreateGroup(ctx, creator.ID, "Bad Policy", "", "", "invite-only")
	if !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("got %v, want ErrInvalidState", err)
	}
}

func TestJoinOpenGroup(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := f.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := f.CreateGroup(ctx, "Open Mic", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)

	res, err := svc.RequestJoin(ctx, g.ID, joiner.ID, "")
	if err != nil {
		t.Fatalf("RequestJoin: %v", err)
	}
	if !res.Joined {
		t.Fatal("expected immediate membership in an open group")
	}
	mustRole(t, ctx, ms, g.ID, joiner.ID, models.RoleMember)

	// Joining again conflicts.
	if _, err := svc.RequestJoin(ctx, g.ID, joiner.ID, ""); !errors.Is(err, governance.ErrConflict) {
		t.Fatalf("second join: got %v, want ErrConflict", err)
	}
}

func TestJoinApprovalGroupLifecycle(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := f.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := f.CreateGroup(ctx, "Choir", models.JoinPolicyApproval)
	f.CreateOwner(ctx, g.ID, owner.ID)

	res, err := svc.RequestJoin(ctx, g.ID, joiner.ID, "let me in")
	if err != nil {
		t.Fatalf("RequestJoin: %v", err)
	}
	if res.Joined {
		t.Fatal("approval group must not admit immediately")
	}
	if res.Request == nil || res.Request.Status != models.RequestPending {
		t.Fatalf("expected a pending request, got %+v", res.Request)
	}

	// Duplicate pending request conflicts.
	if _, err := svc.RequestJoin(ctx, g.ID, joiner.ID, "again"); !errors.Is(err, governance.ErrConflict) {
		t.Fatalf("duplicate request: got %v, want ErrConflict", err)
	}

	m, err := svc.ApproveRequest(ctx, g.ID, owner.ID, res.Request.ID)
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if m.Role != models.RoleMember {
		t.Errorf("approved role: got %q, want member", m.Role)
	}
	mustRole(t, ctx, ms, g.ID, joiner.ID, models.RoleMember)

	// Approving a resolved request is invalid.
	if _, err := svc.ApproveRequest(ctx, g.ID, owner.ID, res.Request.ID); !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("re-approve: got %v, want ErrInvalidState", err)
	}
}

func TestApproveRequiresStanding(t *testing.T) {
	svc, f, _ := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	member := f.CreateUser(ctx, "Member", "member@test.com")
	joiner := f.CreateUser(ctx, "Joiner", "joiner@test.com")
	outsider := f.CreateUser(ctx, "Outsider", "outsider@test.com")

	g := f.CreateGroup(ctx, "Quartet", models.JoinPolicyApproval)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)
	req := f.CreateJoinRequest(ctx, g.ID, joiner.ID)

	if _, err := svc.ApproveRequest(ctx, g.ID, member.ID, req.ID); !errors.Is(err, governance.ErrUnauthorized) {
		t.Fatalf("member approving: got %v, want ErrUnauthorized", err)
	}
	if _, err := svc.ApproveRequest(ctx, g.ID, outsider.ID, req.ID); !errors.Is(err, governance.ErrUnauthorized) {
		t.Fatalf("outsider approving: got %v, want ErrUnauthorized", err)
	}
}

func TestApproveExistingMemberKeepsRequestPending(t *testing.T) {
	svc, f, _ := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := f.CreateUser(ctx, "Joiner", "joiner@test.com")

	g := f.CreateGroup(ctx, "Quartet", models.JoinPolicyApproval)
	f.CreateOwner(ctx, g.ID, owner.ID)
	req := f.CreateJoinRequest(ctx, g.ID, joiner.ID)
	// The joiner got membership through another path while the request
	// was still open.
	f.CreateMembership(ctx, g.ID, joiner.ID, models.RoleMember, time.Now().UTC(), nil)

	if _, err := svc.ApproveRequest(ctx, g.ID, owner.ID, req.ID); !errors.Is(err, governance.ErrConflict) {
		t.Fatalf("approving an existing member: got %v, want ErrConflict", err)
	}

	// The failed approval must not resolve the request; a moderator can
	// still reject it to clear the queue.
	var stored models.JoinRequest
	if err := f.DB().Collection("join_requests").FindOne(ctx, bson.M{"_id": req.ID}).Decode(&stored); err != nil {
		t.Fatalf("load request: %v", err)
	}
	if stored.Status != models.RequestPending {
		t.Errorf("request status after failed approval: got %q, want pending", stored.Status)
	}
	if err := svc.RejectRequest(ctx, g.ID, owner.ID, req.ID); err != nil {
		t.Fatalf("RejectRequest after failed approval: %v", err)
	}
}

func TestRejectLeavesNoMembership(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	joiner := f.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := f.CreateGroup(ctx, "Choir", models.JoinPolicyApproval)
	f.CreateOwner(ctx, g.ID, owner.ID)
	req := f.CreateJoinRequest(ctx, g.ID, joiner.ID)

	if err := svc.RejectRequest(ctx, g.ID, owner.ID, req.ID); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if _, err := ms.Get(ctx, g.ID, joiner.ID); err == nil {
		t.Fatal("rejected user must not become a member")
	}
	// A rejected request cannot be approved afterwards.
	if _, err := svc.ApproveRequest(ctx, g.ID, owner.ID, req.ID); !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("approve after reject: got %v, want ErrInvalidState", err)
	}
}

func TestCancelRequest(t *testing.T) {
	svc, f, _ := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	joiner := f.CreateUser(ctx, "Joiner", "joiner@test.com")
	g := f.CreateGroup(ctx, "Choir", models.JoinPolicyApproval)
	f.CreateJoinRequest(ctx, g.ID, joiner.ID)

	if err := svc.CancelRequest(ctx, g.ID, joiner.ID); err != nil {
		t.Fatalf("CancelRequest: %v", err)
	}
	if err := svc.CancelRequest(ctx, g.ID, joiner.ID); !errors.Is(err, governance.ErrNotFound) {
		t.Fatalf("second cancel: got %v, want ErrNotFound", err)
	}
}

func TestPromoteAndDemote(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	member := f.CreateUser(ctx, "Member", "member@test.com")
	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)

	if err := svc.PromoteToAdmin(ctx, g.ID, owner.ID, member.ID); err != nil {
		t.Fatalf("PromoteToAdmin: %v", err)
	}
	m := mustRole(t, ctx, ms, g.ID, member.ID, models.RoleAdmin)
	if m.PromotedAt == nil {
		t.Fatal("promotion must stamp promoted_at")
	}

	// Promoting an admin again is invalid.
	if err := svc.PromoteToAdmin(ctx, g.ID, owner.ID, member.ID); !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("re-promote: got %v, want ErrInvalidState", err)
	}

	if err := svc.DemoteAdmin(ctx, g.ID, owner.ID, member.ID); err != nil {
		t.Fatalf("DemoteAdmin: %v", err)
	}
	m = mustRole(t, ctx, ms, g.ID, member.ID, models.RoleMember)
	if m.PromotedAt != nil {
		t.Fatal("demotion must clear promoted_at")
	}
}

func TestAdminSeniorityGovernsDemotion(t *testing.T) {
	svc, f, _ := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	senior := f.CreateUser(ctx, "Senior", "senior@test.com")
	junior := f.CreateUser(ctx, "Junior", "junior@test.com")

	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)

	base := time.Now().UTC().Add(-time.Hour)
	earlier := base
	later := base.Add(10 * time.Minute)
	f.CreateMembership(ctx, g.ID, senior.ID, models.RoleAdmin, base, &earlier)
	f.CreateMembership(ctx, g.ID, junior.ID, models.RoleAdmin, base, &later)

	// Junior cannot demote senior.
	if err := svc.DemoteAdmin(ctx, g.ID, junior.ID, senior.ID); !errors.Is(err, governance.ErrUnauthorized) {
		t.Fatalf("junior demoting senior: got %v, want ErrUnauthorized", err)
	}
	// Senior can demote junior.
	if err := svc.DemoteAdmin(ctx, g.ID, senior.ID, junior.ID); err != nil {
		t.Fatalf("senior demoting junior: %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	admin := f.CreateUser(ctx, "Admin", "admin@test.com")
	member := f.CreateUser(ctx, "Member", "member@test.com")

	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	promoted := time.Now().UTC()
	f.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin, promoted, &promoted)
	f.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)

	// Members cannot remove anyone; owner can never be removed.
	if err := svc.RemoveMember(ctx, g.ID, member.ID, admin.ID); !errors.Is(err, governance.ErrUnauthorized) {
		t.Fatalf("member removing admin: got %v, want ErrUnauthorized", err)
	}
	if err := svc.RemoveMember(ctx, g.ID, admin.ID, owner.ID); !errors.Is(err, governance.ErrConflict) {
		t.Fatalf("removing owner: got %v, want ErrConflict", err)
	}

	if err := svc.RemoveMember(ctx, g.ID, admin.ID, member.ID); err != nil {
		t.Fatalf("admin removing member: %v", err)
	}
	if _, err := ms.Get(ctx, g.ID, member.ID); err == nil {
		t.Fatal("removed member still present")
	}
}

func TestTransferOwnership(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	member := f.CreateUser(ctx, "Member", "member@test.com")
	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)

	// Self-transfer and non-owner transfer are rejected.
	if err := svc.TransferOwnership(ctx, g.ID, owner.ID, owner.ID); !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("self transfer: got %v, want ErrInvalidState", err)
	}
	if err := svc.TransferOwnership(ctx, g.ID, member.ID, owner.ID); !errors.Is(err, governance.ErrUnauthorized) {
		t.Fatalf("non-owner transfer: got %v, want ErrUnauthorized", err)
	}

	if err := svc.TransferOwnership(ctx, g.ID, owner.ID, member.ID); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}

	mustRole(t, ctx, ms, g.ID, member.ID, models.RoleOwner)
	prev := mustRole(t, ctx, ms, g.ID, owner.ID, models.RoleAdmin)
	if prev.PromotedAt == nil {
		t.Fatal("previous owner must get a fresh promoted_at")
	}
	if n := countOwners(t, ctx, ms, g.ID); n != 1 {
		t.Errorf("owner count after transfer: got %d, want 1", n)
	}
}

func TestTransferPlacesPreviousOwnerMostJunior(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	admin := f.CreateUser(ctx, "Admin", "admin@test.com")
	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	old := time.Now().UTC().Add(-time.Hour)
	f.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin, old, &old)

	if err := svc.TransferOwnership(ctx, g.ID, owner.ID, admin.ID); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}

	prev := mustRole(t, ctx, ms, g.ID, owner.ID, models.RoleAdmin)
	if prev.PromotedAt == nil || !prev.PromotedAt.After(old) {
		t.Fatal("previous owner must rank junior to existing admins")
	}
}

func TestLeaveAsPlainMember(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	member := f.CreateUser(ctx, "Member", "member@test.com")
	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)

	if err := svc.LeaveGroup(ctx, g.ID, member.ID); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}
	if _, err := ms.Get(ctx, g.ID, member.ID); err == nil {
		t.Fatal("membership must be gone after leaving")
	}
	mustRole(t, ctx, ms, g.ID, owner.ID, models.RoleOwner)
}

func TestOwnerLeaveSuccessionPrefersSeniorAdmin(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	senior := f.CreateUser(ctx, "Senior", "senior@test.com")
	junior := f.CreateUser(ctx, "Junior", "junior@test.com")
	oldest := f.CreateUser(ctx, "Oldest Member", "oldest@test.com")

	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	base := time.Now().UTC().Add(-2 * time.Hour)
	seniorAt := base
	juniorAt := base.Add(30 * time.Minute)
	f.CreateMembership(ctx, g.ID, senior.ID, models.RoleAdmin, base, &seniorAt)
	f.CreateMembership(ctx, g.ID, junior.ID, models.RoleAdmin, base, &juniorAt)
	// Oldest member joined before everyone but is not an admin.
	f.CreateMembership(ctx, g.ID, oldest.ID, models.RoleMember, base.Add(-time.Hour), nil)

	if err := svc.LeaveGroup(ctx, g.ID, owner.ID); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}

	mustRole(t, ctx, ms, g.ID, senior.ID, models.RoleOwner)
	mustRole(t, ctx, ms, g.ID, junior.ID, models.RoleAdmin)
	if _, err := ms.Get(ctx, g.ID, owner.ID); err == nil {
		t.Fatal("departed owner must have no membership")
	}
	if n := countOwners(t, ctx, ms, g.ID); n != 1 {
		t.Errorf("owner count after succession: got %d, want 1", n)
	}
}

func TestOwnerLeaveSuccessionFallsBackToTenure(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	early := f.CreateUser(ctx, "Early", "early@test.com")
	late := f.CreateUser(ctx, "Late", "late@test.com")

	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateMembership(ctx, g.ID, early.ID, models.RoleMember, time.Now().UTC().Add(-time.Hour), nil)
	f.CreateMembership(ctx, g.ID, late.ID, models.RoleMember, time.Now().UTC(), nil)

	if err := svc.LeaveGroup(ctx, g.ID, owner.ID); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}

	mustRole(t, ctx, ms, g.ID, early.ID, models.RoleOwner)
	mustRole(t, ctx, ms, g.ID, late.ID, models.RoleMember)
}

func TestSuccessionSkipsAdminWithoutPromotionStamp(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	unstamped := f.CreateUser(ctx, "Unstamped", "unstamped@test.com")
	stamped := f.CreateUser(ctx, "Stamped", "stamped@test.com")

	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	base := time.Now().UTC().Add(-2 * time.Hour)
	stampedAt := base.Add(time.Hour)
	// An admin record missing promoted_at sorts before every stamped one,
	// but a missing stamp grants no seniority.
	f.CreateMembership(ctx, g.ID, unstamped.ID, models.RoleAdmin, base, nil)
	f.CreateMembership(ctx, g.ID, stamped.ID, models.RoleAdmin, base, &stampedAt)

	if err := svc.LeaveGroup(ctx, g.ID, owner.ID); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}

	mustRole(t, ctx, ms, g.ID, stamped.ID, models.RoleOwner)
	mustRole(t, ctx, ms, g.ID, unstamped.ID, models.RoleAdmin)
	if n := countOwners(t, ctx, ms, g.ID); n != 1 {
		t.Errorf("owner count after succession: got %d, want 1", n)
	}
}

func TestSoleOwnerLeavingDissolvesGroup(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	stranger := f.CreateUser(ctx, "Stranger", "stranger@test.com")
	g := f.CreateGroup(ctx, "Solo Act", models.JoinPolicyApproval)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateJoinRequest(ctx, g.ID, stranger.ID)

	if err := svc.LeaveGroup(ctx, g.ID, owner.ID); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}

	if _, err := ms.Get(ctx, g.ID, owner.ID); err == nil {
		t.Fatal("membership must be gone")
	}
	// Group and its pending requests are gone too.
	if err := svc.CancelRequest(ctx, g.ID, stranger.ID); !errors.Is(err, governance.ErrNotFound) {
		t.Fatalf("pending request should be deleted with the group, got %v", err)
	}
	if _, err := svc.RequestJoin(ctx, g.ID, stranger.ID, ""); !errors.Is(err, governance.ErrNotFound) {
		t.Fatalf("dissolved group should be gone, got %v", err)
	}
}

func TestSystemGroupOwnerCannotAbandon(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	g := f.CreateSystemGroup(ctx)
	f.CreateOwner(ctx, g.ID, owner.ID)

	if err := svc.LeaveGroup(ctx, g.ID, owner.ID); !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("sole owner leaving system group: got %v, want ErrInvalidState", err)
	}
	mustRole(t, ctx, ms, g.ID, owner.ID, models.RoleOwner)
}

func TestDeleteGroup(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	member := f.CreateUser(ctx, "Member", "member@test.com")
	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, owner.ID)
	f.CreateMembership(ctx, g.ID, member.ID, models.RoleMember, time.Now().UTC(), nil)

	if err := svc.DeleteGroup(ctx, g.ID, member.ID); !errors.Is(err, governance.ErrUnauthorized) {
		t.Fatalf("member deleting group: got %v, want ErrUnauthorized", err)
	}
	if err := svc.DeleteGroup(ctx, g.ID, owner.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if _, err := ms.Get(ctx, g.ID, member.ID); err == nil {
		t.Fatal("memberships must be purged with the group")
	}

	sys := f.CreateSystemGroup(ctx)
	f.CreateOwner(ctx, sys.ID, owner.ID)
	if err := svc.DeleteGroup(ctx, sys.ID, owner.ID); !errors.Is(err, governance.ErrInvalidState) {
		t.Fatalf("deleting system group: got %v, want ErrInvalidState", err)
	}
}

// Transfer followed by the new owner leaving must hand the group back to
// the previous owner, who is now the only admin.
func TestTransferThenLeaveRoundTrip(t *testing.T) {
	svc, f, ms := newTestService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice", "alice@test.com")
	bob := f.CreateUser(ctx, "Bob", "bob@test.com")
	g := f.CreateGroup(ctx, "Band", models.JoinPolicyOpen)
	f.CreateOwner(ctx, g.ID, alice.ID)
	f.CreateMembership(ctx, g.ID, bob.ID, models.RoleMember, time.Now().UTC(), nil)

	if err := svc.TransferOwnership(ctx, g.ID, alice.ID, bob.ID); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if err := svc.LeaveGroup(ctx, g.ID, bob.ID); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}

	mustRole(t, ctx, ms, g.ID, alice.ID, models.RoleOwner)
	if n := countOwners(t, ctx, ms, g.ID); n != 1 {
		t.Errorf("owner count: got %d, want 1", n)
	}
}
