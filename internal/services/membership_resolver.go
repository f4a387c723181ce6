package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/repositories"
	"github.com/UniFest-2025/event-service/internal/utils"
)

// MembershipResolver turns a roster of (name, email) entries into student
// ids with a single bulk lookup.
type MembershipResolver interface {
	// Resolve matches each entry against the student partition by email.
	// Inactive students never match. A matched entry whose submitted name
	// differs from the registered name (case-insensitive) is flagged, not
	// rejected; the caller decides whether the mismatch is fatal.
	Resolve(ctx context.Context, entries []MemberEntry) (*Resolution, error)
}

type MemberEntry struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type ResolvedMember struct {
	Student      *models.User
	Entry        MemberEntry
	NameMismatch bool
}

type Resolution struct {
	Resolved []ResolvedMember
	NotFound []string
}

// StudentIDs returns the matched ids in entry order.
func (r *Resolution) StudentIDs() []uint {
	ids := make([]uint, 0, len(r.Resolved))
	for _, m := range r.Resolved {
		ids = append(ids, m.Student.ID)
	}
	return ids
}

// Complete reports whether every entry matched a student.
func (r *Resolution) Complete() bool {
	return len(r.NotFound) == 0
}

type membershipResolver struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewMembershipResolver(repo repositories.Repository, logger utils.Logger) MembershipResolver {
	return &membershipResolver{repo: repo, logger: logger}
}

func (s *membershipResolver) Resolve(ctx context.Context, entries []MemberEntry) (*Resolution, error) {
	// Dedupe emails before the lookup; two roster rows with the same email
	// resolve to the same student.
	seen := make(map[string]struct{}, len(entries))
	unique := make([]MemberEntry, 0, len(entries))
	emails := make([]string, 0, len(entries))
	for _, e := range entries {
		email := strings.ToLower(strings.TrimSpace(e.Email))
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		e.Email = email
		unique = append(unique, e)
		emails = append(emails, email)
	}

	students, err := s.repo.User().GetStudentsByEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("bulk student lookup failed: %w", err)
	}

	byEmail := make(map[string]*models.User, len(students))
	for _, st := range students {
		byEmail[strings.ToLower(st.Email)] = st
	}

	result := &Resolution{}
	for _, e := range unique {
		student, ok := byEmail[e.Email]
		if !ok {
			result.NotFound = append(result.NotFound, e.Email)
			continue
		}
		mismatch := !strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(student.Name))
		if mismatch {
			s.logger.Warn("Member name mismatch",
				"email", e.Email,
				"submitted", e.Name,
				"registered", student.Name)
		}
		result.Resolved = append(result.Resolved, ResolvedMember{
			Student:      student,
			Entry:        e,
			NameMismatch: mismatch,
		})
	}

	return result, nil
}
