// Package memory implementa los puertos de persistencia en memoria. Lo usan los tests de
// casos de uso y de handlers HTTP en lugar de PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

type state struct {
	users        map[int64]entity.User
	products     map[int64]entity.Product
	movements    []entity.Movement
	nextUser     int64
	nextProduct  int64
	nextMovement int64
}

func (s state) clone() state {
	c := s
	c.users = make(map[int64]entity.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.products = make(map[int64]entity.Product, len(s.products))
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = append([]entity.Movement(nil), s.movements...)
	return c
}

// Store guarda usuarios, productos y movimientos. Run serializa las transacciones y
// restaura el estado previo si fn devuelve error. Las escrituras fuera de Run esperan a
// que termine la transacción en curso, así un rollback nunca pisa datos ajenos.
type Store struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	st       state
	collator *collate.Collator // protegido por mu
	Now      func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		st: state{
			users:    make(map[int64]entity.User),
			products: make(map[int64]entity.Product),
		},
		collator: collate.New(language.BrazilianPortuguese, collate.Loose),
		Now:      time.Now,
	}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements devuelve el repositorio de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// lockWrite toma txMu salvo dentro de Run, que ya lo tiene.
func (s *Store) lockWrite(inTx bool) func() {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

// Run ejecuta fn de forma atómica respecto de otras llamadas a Run.
func (s *Store) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(&ProductRepo{s: s, inTx: true}, &MovementRepo{s: s, inTx: true}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

// Create asigna ID y rechaza emails duplicados.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lockWrite(false)()
	for _, existing := range r.s.st.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.st.nextUser++
	u.ID = r.s.st.nextUser
	u.CreatedAt = r.s.Now()
	r.s.st.users[u.ID] = *u
	return nil
}

// GetByEmail devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ProductRepo productos en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// Create asigna ID y timestamps.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	r.s.st.nextProduct++
	now := r.s.Now()
	p.ID = r.s.st.nextProduct
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.st.products[p.ID] = *p
	return nil
}

// GetByID devuelve ErrProductNotFound si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// List filtra por substring sin distinguir mayúsculas y ordena por nombre según la
// colación pt-BR, con el ID como desempate.
func (r *ProductRepo) List(_ context.Context, nameFilter string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f := strings.ToLower(strings.TrimSpace(nameFilter))
	list := make([]*entity.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		if f != "" && !strings.Contains(strings.ToLower(p.Name), f) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if c := r.s.collator.CompareString(list[i].Name, list[j].Name); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Update aplica el patch sobre el valor almacenado.
func (r *ProductRepo) Update(_ context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	defer r.s.lockWrite(r.inTx)()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.MinimumThreshold != nil {
		p.MinimumThreshold = *patch.MinimumThreshold
	}
	p.UpdatedAt = r.s.Now()
	r.s.st.products[id] = p
	return &p, nil
}

// Delete elimina el producto y sus movimientos.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.st.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.st.products, id)
	kept := r.s.st.movements[:0]
	for _, m := range r.s.st.movements {
		if m.ProductID != id {
			kept = append(kept, m)
		}
	}
	r.s.st.movements = kept
	return nil
}

// ApplyDelta suma delta a la cantidad.
func (r *ProductRepo) ApplyDelta(_ context.Context, id int64, delta int64) (*entity.Product, error) {
	defer r.s.lockWrite(r.inTx)()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Quantity += delta
	p.UpdatedAt = r.s.Now()
	r.s.st.products[id] = p
	return &p, nil
}

// MovementRepo movimientos en memoria.
type MovementRepo struct {
	s    *Store
	inTx bool
}

// Create valida las referencias como lo harían las FKs.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.st.products[m.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	if _, ok := r.s.st.users[m.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.st.nextMovement++
	m.ID = r.s.st.nextMovement
	if m.Timestamp.IsZero() {
		m.Timestamp = r.s.Now()
	}
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

// List devuelve los movimientos por fecha descendente, luego ID descendente.
func (r *MovementRepo) List(_ context.Context, filter entity.MovementFilter) ([]*entity.MovementDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.MovementDetail, 0)
	for _, m := range r.s.st.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		list = append(list, &entity.MovementDetail{
			Movement:    m,
			ProductName: r.s.st.products[m.ProductID].Name,
			UserName:    r.s.st.users[m.UserID].Name,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.After(list[j].Timestamp)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// ExitTotalsSince suma las salidas por producto desde since.
func (r *MovementRepo) ExitTotalsSince(_ context.Context, since time.Time) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := make(map[int64]int64)
	for _, m := range r.s.st.movements {
		if m.Kind == entity.MovementKindExit && !m.Timestamp.Before(since) {
			totals[m.ProductID] += m.Quantity
		}
	}
	return totals, nil
}
