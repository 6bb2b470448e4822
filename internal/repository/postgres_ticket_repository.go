package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiokit/portal/internal/domain"
	"github.com/studiokit/portal/pkg/util"
)

// postgresTicketRepository is the I/O-backed implementation of
// TicketRepository. Per-ticket serialization comes from SELECT ... FOR UPDATE
// inside a transaction; the sequential TK-### identity from a sequence.
type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository instantiates the repository.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, category, user_id,
       assignee_id, assignee_name, tags, comments, attachments,
       created_at, updated_at, resolved_at, closed_at,
       estimated_resolution_ns, actual_resolution_ns`

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if ticket.Comments == nil {
		ticket.Comments = []domain.Comment{}
	}
	if ticket.Attachments == nil {
		ticket.Attachments = []domain.Attachment{}
	}
	tags, comments, attachments, err := marshalNested(ticket)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO tickets (id, title, description, status, priority, category, user_id,
                             assignee_id, assignee_name, tags, comments, attachments,
                             estimated_resolution_ns, actual_resolution_ns)
        VALUES ('TK-' || LPAD(nextval('ticket_seq')::text, 3, '0'),
                $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	err = r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.UserID,
		ticket.AssigneeID,
		ticket.AssigneeName,
		tags,
		comments,
		attachments,
		durationNs(ticket.EstimatedResolution),
		durationNs(ticket.ActualResolution),
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return util.NewTransientFailure(err)
	}
	return nil
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, util.NewTransientFailure(err)
	}
	return ticket, nil
}

func (r *postgresTicketRepository) Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, util.NewTransientFailure(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 FOR UPDATE`, ticketColumns)
	ticket, err := scanTicket(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, util.NewTransientFailure(err)
	}

	if err := mutate(ticket); err != nil {
		return nil, err
	}

	tags, comments, attachments, err := marshalNested(ticket)
	if err != nil {
		return nil, err
	}
	const update = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, category=$5,
            assignee_id=$6, assignee_name=$7, tags=$8, comments=$9, attachments=$10,
            resolved_at=$11, closed_at=$12, estimated_resolution_ns=$13, actual_resolution_ns=$14,
            updated_at=GREATEST(updated_at, NOW())
        WHERE id=$15
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.AssigneeID,
		ticket.AssigneeName,
		tags,
		comments,
		attachments,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		durationNs(ticket.EstimatedResolution),
		durationNs(ticket.ActualResolution),
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return nil, util.NewTransientFailure(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, util.NewTransientFailure(err)
	}
	return ticket, nil
}

func (r *postgresTicketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return util.NewTransientFailure(err)
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func (r *postgresTicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets ORDER BY id ASC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, util.NewTransientFailure(err)
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, util.NewTransientFailure(err)
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewTransientFailure(err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket      domain.Ticket
		tags        []byte
		comments    []byte
		attachments []byte
		estimatedNs *int64
		actualNs    *int64
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.UserID,
		&ticket.AssigneeID,
		&ticket.AssigneeName,
		&tags,
		&comments,
		&attachments,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&estimatedNs,
		&actualNs,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &ticket.Tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &ticket.Comments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &ticket.Attachments); err != nil {
		return nil, err
	}
	ticket.EstimatedResolution = nsDuration(estimatedNs)
	ticket.ActualResolution = nsDuration(actualNs)
	return &ticket, nil
}

func marshalNested(ticket *domain.Ticket) (tags, comments, attachments []byte, err error) {
	if tags, err = json.Marshal(ticket.Tags); err != nil {
		return nil, nil, nil, err
	}
	if comments, err = json.Marshal(ticket.Comments); err != nil {
		return nil, nil, nil, err
	}
	if attachments, err = json.Marshal(ticket.Attachments); err != nil {
		return nil, nil, nil, err
	}
	return tags, comments, attachments, nil
}

func durationNs(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ns := int64(*d)
	return &ns
}

func nsDuration(ns *int64) *time.Duration {
	if ns == nil {
		return nil
	}
	d := time.Duration(*ns)
	return &d
}
