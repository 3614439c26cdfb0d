package domain

import (
	"github.com/projlens/projlens-backend/internal/apperr"
	authdomain "github.com/projlens/projlens-backend/internal/auth/domain"
)

// Intent classifies an operation for authorization purposes.
type Intent int

const (
	IntentRead Intent = iota
	IntentWrite
)

// Authorize decides whether the actor may perform the intent on the
// project. Pure: no I/O, fed entirely by the hydrated project row.
//
// Admins pass unconditionally. Otherwise the actor must be the owner or
// on the access list to read, and the owner to write; sharees have
// read-only standing.
func Authorize(p Project, actor authdomain.Actor, intent Intent) error {
	if actor.IsAdmin {
		return nil
	}

	// Malformed rows reaching this point are programming errors, not
	// denials, and must fail loudly with a distinct category.
	if p.ID <= 0 || p.CreatedBy <= 0 {
		return apperr.Internalf("authorize: malformed project record (ID: %d)", p.ID)
	}

	isOwner := p.CreatedBy == actor.ID
	isSharee := false
	for _, entry := range p.Access {
		if entry.UserID == actor.ID {
			isSharee = true
			break
		}
	}

	if !(isOwner || isSharee) || (intent == IntentWrite && !isOwner) {
		return apperr.Forbiddenf("Unauthorized access (ID: %d)", p.ID)
	}
	return nil
}

// GateWrite is the role gate: it blanket-denies write intents for the
// lowest-privilege role before ownership is even consulted, producing a
// denial distinct from the project-level one. An owner demoted to
// READER is therefore still denied here.
func GateWrite(actor authdomain.Actor, projectID int64) error {
	if actor.Role == authdomain.RoleReader {
		return apperr.Forbiddenf("Unauthorized attempt to write in project (ID: %d)", projectID)
	}
	return nil
}

// GateCreate denies project creation outright for the lowest-privilege
// role; only roles above READER (or admins) may create.
func GateCreate(actor authdomain.Actor) error {
	if actor.Role == authdomain.RoleReader {
		return apperr.Forbiddenf("Unauthorized attempt to create a project.")
	}
	return nil
}
