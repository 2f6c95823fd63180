package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/models"
	"github.com/SscSPs/workshop_inventory/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxWorkOrderRepository implements the work order ports using pgx.
type PgxWorkOrderRepository struct {
	BaseRepository
}

func newPgxWorkOrderRepository(base BaseRepository) portsrepo.WorkOrderRepositoryFacade {
	return &PgxWorkOrderRepository{BaseRepository: base}
}

var _ portsrepo.WorkOrderRepositoryFacade = (*PgxWorkOrderRepository)(nil)

// FindWorkOrderByID retrieves a work order with its reservations.
func (r *PgxWorkOrderRepository) FindWorkOrderByID(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	var m models.WorkOrder
	err := r.db(ctx).QueryRow(ctx, `
		SELECT order_id, description, status, created_at, created_by, last_updated_at, last_updated_by
		FROM work_orders
		WHERE order_id = $1;`, orderID,
	).Scan(
		&m.OrderID,
		&m.Description,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "find work order %s", orderID)
	}

	rows, err := r.db(ctx).Query(ctx, `
		SELECT order_id, item_code, quantity
		FROM work_order_reservations
		WHERE order_id = $1
		ORDER BY item_code;`, orderID)
	if err != nil {
		return nil, mapError(err, "list reservations of work order %s", orderID)
	}
	reservations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Reservation, error) {
		var res models.Reservation
		err := row.Scan(&res.OrderID, &res.ItemCode, &res.Quantity)
		return res, err
	})
	if err != nil {
		return nil, mapError(err, "scan reservations of work order %s", orderID)
	}

	order := mapping.ToDomainWorkOrder(m, reservations)
	return &order, nil
}

// SumOpenReservations totals reservations of OPEN orders that have not been invoiced yet.
func (r *PgxWorkOrderRepository) SumOpenReservations(ctx context.Context, itemCodes []string) (map[string]int64, error) {
	sums := make(map[string]int64, len(itemCodes))
	if len(itemCodes) == 0 {
		return sums, nil
	}
	query := `
		SELECT r.item_code, SUM(r.quantity)::BIGINT
		FROM work_order_reservations r
		JOIN work_orders w ON w.order_id = r.order_id
		WHERE w.status = 'OPEN'
			AND r.item_code = ANY($1)
			AND NOT EXISTS (
				SELECT 1 FROM invoices i WHERE i.subject_ref = w.order_id AND i.status <> 'VOID'
			)
		GROUP BY r.item_code;`
	rows, err := r.db(ctx).Query(ctx, query, itemCodes)
	if err != nil {
		return nil, mapError(err, "sum open reservations")
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var qty int64
		if err := rows.Scan(&code, &qty); err != nil {
			return nil, mapError(err, "scan reservation sum")
		}
		sums[code] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate reservation sums")
	}
	return sums, nil
}

func (r *PgxWorkOrderRepository) insertReservations(ctx context.Context, rows []models.Reservation) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, res := range rows {
		batch.Queue(`INSERT INTO work_order_reservations (order_id, item_code, quantity) VALUES ($1, $2, $3);`,
			res.OrderID, res.ItemCode, res.Quantity)
	}
	// Close reports the first failing statement.
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "insert reservations")
	}
	return nil
}

// SaveWorkOrder inserts a work order and its reservations in one transaction.
func (r *PgxWorkOrderRepository) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	m, reservations := mapping.ToModelWorkOrder(order)
	return r.WithTx(ctx, func(ctx context.Context) error {
		_, err := r.db(ctx).Exec(ctx, `
			INSERT INTO work_orders (order_id, description, status, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			m.OrderID, m.Description, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "save work order %s", m.OrderID)
		}
		return r.insertReservations(ctx, reservations)
	})
}

// ReplaceReservations deletes the order's reservations and inserts the new set.
func (r *PgxWorkOrderRepository) ReplaceReservations(ctx context.Context, orderID string, reservations []domain.Reservation, updatedBy string, updatedAt time.Time) error {
	return r.WithTx(ctx, func(ctx context.Context) error {
		if err := r.touch(ctx, orderID, nil, updatedBy, updatedAt); err != nil {
			return err
		}
		if _, err := r.db(ctx).Exec(ctx, `DELETE FROM work_order_reservations WHERE order_id = $1;`, orderID); err != nil {
			return mapError(err, "clear reservations of work order %s", orderID)
		}
		return r.insertReservations(ctx, mapping.ToModelReservations(orderID, reservations))
	})
}

func (r *PgxWorkOrderRepository) UpdateWorkOrderStatus(ctx context.Context, orderID string, status domain.WorkOrderStatus, updatedBy string, updatedAt time.Time) error {
	s := string(status)
	return r.touch(ctx, orderID, &s, updatedBy, updatedAt)
}

// touch bumps the audit columns and optionally the status.
func (r *PgxWorkOrderRepository) touch(ctx context.Context, orderID string, status *string, updatedBy string, updatedAt time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE work_orders
		SET status = COALESCE($2, status), last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1;`, orderID, status, updatedAt, updatedBy)
	if err != nil {
		return mapError(err, "update work order %s", orderID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "update work order %s", orderID)
	}
	return nil
}
