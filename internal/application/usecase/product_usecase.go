package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad también cambia vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. quantity y minimum_threshold ausentes o no numéricos quedan en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Nome é obrigatório")
	}
	product := &entity.Product{
		Name:             name,
		Quantity:         in.Quantity.OrZero(),
		MinimumThreshold: in.MinimumThreshold.OrZero(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update aplica una actualización parcial. Un campo presente pero inválido es error de validación.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var patch repository.ProductPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Nome não pode ser vazio")
		}
		patch.Name = &name
	}
	if in.Quantity.Present && !in.Quantity.Valid {
		return nil, domain.Invalid("Quantidade inválida")
	}
	if in.MinimumThreshold.Present && !in.MinimumThreshold.Valid {
		return nil, domain.Invalid("Estoque mínimo inválido")
	}
	patch.Quantity = in.Quantity.Ptr()
	patch.MinimumThreshold = in.MinimumThreshold.Ptr()

	product, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos ordenados por nombre, con filtro opcional por substring.
func (uc *ProductUseCase) List(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProductResponse(p))
	}
	return out, nil
}

// Delete elimina un producto y su historial de movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	r := dto.NewProductResponse(p)
	return &r
}
