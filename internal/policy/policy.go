package policy

import "edms/internal/model"

// Requester identifies the caller a decision is evaluated for.
// The zero value is an anonymous caller: no email, no department.
type Requester struct {
	Email      string
	Department string
}

// Anonymous reports whether the requester carries no identity.
func (r Requester) Anonymous() bool {
	return r.Email == ""
}

// Permissions is the set of operations a requester may perform on a document.
type Permissions struct {
	CanRead   bool
	CanWrite  bool
	CanDelete bool
}

// Evaluate maps a document's visibility, owner, and department plus the
// requester identity to a permission set. It is a pure function: no I/O,
// no clock, no state.
//
// Rules:
//   - public: anyone may read, including anonymous callers.
//   - team: read for the owner or for requesters in the document's department.
//   - private: owner only.
//   - write and delete always require exact owner-email match; department
//     membership never grants mutation.
//
// The administrative tier is deliberately not modeled here. Admin callers
// bypass this evaluator entirely but still go through the lifecycle guards.
func Evaluate(doc *model.Document, req Requester) Permissions {
	owner := req.Email != "" && req.Email == doc.OwnerEmail

	var read bool
	switch doc.AccessLevel {
	case model.AccessPublic:
		read = true
	case model.AccessTeam:
		read = owner || (req.Department != "" && req.Department == doc.Department)
	case model.AccessPrivate:
		read = owner
	}

	return Permissions{
		CanRead:   read,
		CanWrite:  owner,
		CanDelete: owner,
	}
}

// VisibleTo reports whether a document appears in listings for the requester.
// Soft-deleted documents are never visible, regardless of policy.
func VisibleTo(doc *model.Document, req Requester) bool {
	if doc.IsDeleted {
		return false
	}
	return Evaluate(doc, req).CanRead
}
