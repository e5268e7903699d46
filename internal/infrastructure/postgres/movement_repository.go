package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. Si Timestamp es cero la base asigna now().
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	var ts *time.Time
	if !m.Timestamp.IsZero() {
		ts = &m.Timestamp
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO movimentacoes (produto_id, usuario_id, tipo, quantidade, data_movimentacao, observacao)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6)
		RETURNING id_movimentacao, data_movimentacao`,
		m.ProductID, m.UserID, m.Kind, m.Quantity, ts, m.Note,
	).Scan(&m.ID, &m.Timestamp)
	if err != nil {
		if constraint, ok := foreignKeyConstraint(err); ok {
			if strings.Contains(constraint, "usuario") {
				return domain.ErrUserNotFound
			}
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List devuelve los movimientos con nombre de producto y responsable, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementDetail, error) {
	query := `
		SELECT m.id_movimentacao, m.produto_id, p.nome, m.usuario_id, u.nome,
		       m.tipo, m.quantidade, m.data_movimentacao, m.observacao
		  FROM movimentacoes m
		  JOIN produtos p ON p.id_produto = m.produto_id
		  JOIN usuarios u ON u.id_usuario = m.usuario_id`
	var args []any
	if filter.ProductID != nil {
		query += ` WHERE m.produto_id = $1`
		args = append(args, *filter.ProductID)
	}
	query += ` ORDER BY m.data_movimentacao DESC, m.id_movimentacao DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MovementDetail, 0)
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(&d.ID, &d.ProductID, &d.ProductName, &d.UserID, &d.UserName,
			&d.Kind, &d.Quantity, &d.Timestamp, &d.Note); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ExitTotalsSince agrupa las salidas por producto a partir de since.
func (r *MovementRepo) ExitTotalsSince(ctx context.Context, since time.Time) (map[int64]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT produto_id, COALESCE(SUM(quantidade), 0)::bigint
		  FROM movimentacoes
		 WHERE tipo = $1 AND data_movimentacao >= $2
		 GROUP BY produto_id`,
		entity.MovementKindExit, since,
	)
	if err != nil {
		return nil, fmt.Errorf("exit totals: %w", err)
	}
	defer rows.Close()
	totals := make(map[int64]int64)
	for rows.Next() {
		var id, units int64
		if err := rows.Scan(&id, &units); err != nil {
			return nil, fmt.Errorf("scan exit totals: %w", err)
		}
		totals[id] = units
	}
	return totals, rows.Err()
}
