package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id_produto, nome, quantidade, estoque_minimo, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y completa ID y timestamps.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO produtos (nome, quantidade, estoque_minimo)
		VALUES ($1, $2, $3)
		RETURNING id_produto, created_at, updated_at`,
		product.Name, product.Quantity, product.MinimumThreshold,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM produtos WHERE id_produto = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve los productos ordenados por nombre; nameFilter filtra por substring sin distinguir mayúsculas.
func (r *ProductRepo) List(ctx context.Context, nameFilter string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM produtos`
	var args []any
	if f := strings.TrimSpace(nameFilter); f != "" {
		query += ` WHERE lower(nome) LIKE lower($1)`
		args = append(args, containsPattern(f))
	}
	query += ` ORDER BY nome ASC, id_produto ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update aplica un merge: los campos nil del patch conservan el valor almacenado.
func (r *ProductRepo) Update(ctx context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `
		UPDATE produtos
		   SET nome           = COALESCE($2, nome),
		       quantidade     = COALESCE($3, quantidade),
		       estoque_minimo = COALESCE($4, estoque_minimo),
		       updated_at     = now()
		 WHERE id_produto = $1
		RETURNING `+productColumns,
		id, patch.Name, patch.Quantity, patch.MinimumThreshold,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete elimina un producto por ID (sus movimientos caen en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM produtos WHERE id_produto = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ApplyDelta suma delta a la cantidad. El UPDATE toma el lock de fila, así que deltas
// concurrentes sobre el mismo producto se serializan hasta el commit.
func (r *ProductRepo) ApplyDelta(ctx context.Context, id int64, delta int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `
		UPDATE produtos
		   SET quantidade = quantidade + $2,
		       updated_at = now()
		 WHERE id_produto = $1
		RETURNING `+productColumns,
		id, delta,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.MinimumThreshold, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
