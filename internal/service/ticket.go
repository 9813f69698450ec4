package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository"
)

const maxTicketAttempts = 5

// TicketGenerator issues codes of the form PREFIX-yyyyMMddHHmmss-NNNN.
type TicketGenerator struct {
	prefix   string
	seq      atomic.Uint32
	sessions repository.ParkingSessionRepository
}

func NewTicketGenerator(prefix string, sessions repository.ParkingSessionRepository) *TicketGenerator {
	return &TicketGenerator{prefix: prefix, sessions: sessions}
}

// Next returns a code no existing session uses.
func (g *TicketGenerator) Next(ctx context.Context, at time.Time) (string, error) {
	for i := 0; i < maxTicketAttempts; i++ {
		code := domain.FormatTicketCode(g.prefix, at, g.seq.Add(1))
		_, err := g.sessions.FindByTicketCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check ticket code: %w", err)
		}
	}
	return "", fmt.Errorf("could not issue a unique ticket code after %d attempts", maxTicketAttempts)
}
