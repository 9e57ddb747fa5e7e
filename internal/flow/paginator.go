package flow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/controlusuario/userbot/internal/domain"
	"github.com/controlusuario/userbot/internal/storage"
)

const msgEmptyPage = "No hay usuarios en esta página."

// Paginator renders page windows over the user roster. It is stateless
// beyond the request parameters; totals are re-queried per render.
type Paginator struct {
	users    storage.UserStore
	pageSize int
}

// NewPaginator builds a paginator with the configured page size.
func NewPaginator(users storage.UserStore, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{users: users, pageSize: pageSize}
}

// Render produces the listing text and navigation window for the requested
// page. Negative pages clamp to zero; pages past the end yield an empty body
// rather than an error.
func (p *Paginator) Render(ctx context.Context, page int) (Effect, error) {
	if page < 0 {
		page = 0
	}

	total, err := p.users.Count(ctx)
	if err != nil {
		return Effect{Action: ActionAskAgain, Text: msgStoreFailure},
			fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	users, err := p.users.List(ctx, page*p.pageSize, p.pageSize)
	if err != nil {
		return Effect{Action: ActionAskAgain, Text: msgStoreFailure},
			fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	window := &PageWindow{
		Page:     page,
		PageSize: p.pageSize,
		Total:    total,
		HasPrev:  page > 0,
		HasNext:  int64(page+1)*int64(p.pageSize) < total,
	}

	return Effect{
		Action: ActionShowPage,
		Text:   renderBody(users, page, total),
		Window: window,
	}, nil
}

func renderBody(users []domain.User, page int, total int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Lista de usuarios (página %d, total %d)\n\n", page+1, total)
	if len(users) == 0 {
		b.WriteString(msgEmptyPage)
		return b.String()
	}
	for _, u := range users {
		fmt.Fprintf(&b, "ID: %d | @%s | Plan: %s | Grupo: %s | Academia: %s\n",
			u.ID,
			orDash(u.Username),
			orDash(u.Plan),
			orDash(u.Group),
			orDash(u.Academy),
		)
	}
	return b.String()
}

func orDash(v sql.NullString) string {
	if v.Valid && v.String != "" {
		return v.String
	}
	return "-"
}
