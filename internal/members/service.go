package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/checklane/register-backend/pkg/errors"
	"gorm.io/gorm"
)

const memberNotFoundMessage = "member not found"

// Service resolves membership accounts for the current transaction.
type Service interface {
	ByPhone(ctx context.Context, phoneNumber string) (*Member, error)
	ByAccount(ctx context.Context, accountNumber int64) (*Member, error)
}

type memberRepository interface {
	MemberByPhone(ctx context.Context, phoneNumber string) (*Member, error)
	MemberByAccount(ctx context.Context, accountNumber int64) (*Member, error)
}

type service struct {
	members memberRepository
}

// NewService constructs a membership lookup service.
func NewService(members memberRepository) (Service, error) {
	if members == nil {
		return nil, fmt.Errorf("member repository is required")
	}
	return &service{members: members}, nil
}

// ByPhone strips formatting punctuation before the lookup so "(555) 123-4567"
// and "5551234567" match the same row.
func (s *service) ByPhone(ctx context.Context, phoneNumber string) (*Member, error) {
	normalized := normalizePhone(phoneNumber)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number must contain digits")
	}

	member, err := s.members.MemberByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, memberNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup member by phone")
	}
	return member, nil
}

func (s *service) ByAccount(ctx context.Context, accountNumber int64) (*Member, error) {
	if accountNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account number must be positive")
	}

	member, err := s.members.MemberByAccount(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, memberNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup member by account")
	}
	return member, nil
}

func normalizePhone(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
