// Package app es la máquina de estados de la aplicación de terminal:
// login → home → {produtos, estoque}, con formularios locales y validación previa al request.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/client"
)

// View pantalla actual.
type View int

const (
	ViewLogin View = iota
	ViewHome
	ViewProducts
	ViewStock
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewHome:
		return "home"
	case ViewProducts:
		return "produtos"
	case ViewStock:
		return "estoque"
	}
	return "?"
}

// API lo que la app necesita del backend; lo implementa *client.Client.
type API interface {
	SetToken(token string)
	Register(ctx context.Context, name, email, password string) (*dto.UserResponse, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	ListProducts(ctx context.Context, query string) ([]dto.ProductResponse, error)
	CreateProduct(ctx context.Context, in client.ProductInput) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id int64, in client.ProductInput) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id int64) error
	Replenishment(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error)
	Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error)
	RecordMovement(ctx context.Context, in client.MovementInput) (*dto.RecordMovementResponse, error)
	ListMovements(ctx context.Context, productID *int64) ([]dto.MovementResponse, error)
}

// UI alertas bloqueantes y confirmaciones.
type UI interface {
	Alert(msg string)
	Confirm(msg string) bool
}

// Session usuario autenticado; es el único estado de auth del cliente.
type Session struct {
	UserID int64
	Name   string
	Email  string
	Token  string
}

// ProductForm formulario de alta/edición; los números llegan como texto.
type ProductForm struct {
	EditingID        int64 // 0 = alta
	Name             string
	Quantity         string
	MinimumThreshold string
}

// MovementForm formulario de movimiento.
type MovementForm struct {
	ProductID int64
	Kind      string
	Quantity  string
	Timestamp string // RFC 3339 opcional
	Note      string
}

// ErrValidation validación local fallida; el mensaje ya se mostró con Alert.
var ErrValidation = errors.New("validação local")

// App estado de la aplicación de terminal.
type App struct {
	api      API
	ui       UI
	collator *collate.Collator

	view     View
	session  *Session
	query    string
	products []dto.ProductResponse

	historyFilter *int64
	movements     []dto.MovementResponse

	productForm  *ProductForm
	movementForm *MovementForm
}

// New crea la app en la pantalla de login.
func New(api API, ui UI) *App {
	return &App{
		api:      api,
		ui:       ui,
		collator: collate.New(language.BrazilianPortuguese, collate.Loose),
		view:     ViewLogin,
	}
}

// View pantalla actual.
func (a *App) View() View { return a.view }

// Session sesión actual o nil.
func (a *App) Session() *Session { return a.session }

// Products último listado, ordenado con collation pt-BR.
func (a *App) Products() []dto.ProductResponse { return a.products }

// Movements último historial cargado.
func (a *App) Movements() []dto.MovementResponse { return a.movements }

// HistoryFilter producto filtrado en el historial (nil = todos).
func (a *App) HistoryFilter() *int64 { return a.historyFilter }

// ProductForm formulario abierto o nil.
func (a *App) ProductForm() *ProductForm { return a.productForm }

// MovementForm formulario abierto o nil.
func (a *App) MovementForm() *MovementForm { return a.movementForm }

// fail muestra el error y lo devuelve. Errores de red se muestran con mensaje genérico.
func (a *App) fail(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		a.ui.Alert(apiErr.Message)
	case errors.Is(err, client.ErrNetwork):
		a.ui.Alert(client.ErrNetwork.Error())
	case errors.Is(err, ErrValidation):
	default:
		a.ui.Alert(err.Error())
	}
	return err
}

func (a *App) invalid(msg string) error {
	a.ui.Alert(msg)
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// ── Sesión ──────────────────────────────────────────────────────────────────

// Login autentica y pasa a home.
func (a *App) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return a.invalid("Informe e-mail e senha")
	}
	out, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.session = &Session{UserID: out.ID, Name: out.Name, Email: out.Email, Token: out.Token}
	a.api.SetToken(out.Token)
	a.view = ViewHome
	return nil
}

// Register crea un usuario; no inicia sesión.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return a.invalid("Preencha nome, e-mail e senha")
	}
	if _, err := a.api.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password); err != nil {
		return a.fail(err)
	}
	return nil
}

// Logout limpia la sesión y todo el estado local.
func (a *App) Logout() {
	a.session = nil
	a.api.SetToken("")
	a.products = nil
	a.movements = nil
	a.historyFilter = nil
	a.query = ""
	a.productForm = nil
	a.movementForm = nil
	a.view = ViewLogin
}

// ── Navegación ──────────────────────────────────────────────────────────────

// Open entra a produtos o estoque desde home y recarga los datos.
func (a *App) Open(ctx context.Context, v View) error {
	if a.view != ViewHome {
		return fmt.Errorf("navegação inválida: %s → %s", a.view, v)
	}
	switch v {
	case ViewProducts:
		a.view = ViewProducts
		a.query = ""
		return a.RefreshProducts(ctx)
	case ViewStock:
		a.view = ViewStock
		a.query = ""
		a.historyFilter = nil
		if err := a.RefreshProducts(ctx); err != nil {
			return err
		}
		return a.RefreshMovements(ctx)
	}
	return fmt.Errorf("navegação inválida: %s → %s", a.view, v)
}

// Summary resumen del inventario; disponible desde home.
func (a *App) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if a.session == nil {
		return nil, a.invalid("Faça login para ver o resumo")
	}
	out, err := a.api.Dashboard(ctx)
	if err != nil {
		return nil, a.fail(err)
	}
	return out, nil
}

// Back vuelve a home desde una pantalla hoja, descartando formularios y el filtro de búsqueda.
func (a *App) Back() {
	if a.view == ViewProducts || a.view == ViewStock {
		a.productForm = nil
		a.movementForm = nil
		a.query = ""
		a.view = ViewHome
	}
}

// ── Productos ───────────────────────────────────────────────────────────────

// RefreshProducts vuelve a pedir el listado (sin caché) con el filtro actual.
func (a *App) RefreshProducts(ctx context.Context) error {
	list, err := a.api.ListProducts(ctx, a.query)
	if err != nil {
		return a.fail(err)
	}
	a.sortProducts(list)
	a.products = list
	return nil
}

// Search aplica un filtro por nombre y recarga.
func (a *App) Search(ctx context.Context, query string) error {
	a.query = strings.TrimSpace(query)
	return a.RefreshProducts(ctx)
}

func (a *App) sortProducts(list []dto.ProductResponse) {
	sort.SliceStable(list, func(i, j int) bool {
		return a.collator.CompareString(list[i].Name, list[j].Name) < 0
	})
}

// StartCreate abre el formulario vacío.
func (a *App) StartCreate() {
	a.productForm = &ProductForm{Quantity: "0", MinimumThreshold: "0"}
}

// StartEdit abre el formulario con los datos del producto.
func (a *App) StartEdit(id int64) error {
	p := a.findProduct(id)
	if p == nil {
		return a.invalid("Produto não encontrado na lista")
	}
	a.productForm = &ProductForm{
		EditingID:        p.ID,
		Name:             p.Name,
		Quantity:         strconv.FormatInt(p.Quantity, 10),
		MinimumThreshold: strconv.FormatInt(p.MinimumThreshold, 10),
	}
	return nil
}

// CancelProductForm descarta el formulario.
func (a *App) CancelProductForm() { a.productForm = nil }

// SaveProduct valida y envía el formulario; en éxito lo limpia y recarga la lista.
func (a *App) SaveProduct(ctx context.Context, form ProductForm) error {
	a.productForm = &form
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return a.invalid("Nome é obrigatório")
	}
	qty, ok := parseNonNegative(form.Quantity)
	if !ok {
		return a.invalid("Quantidade deve ser um número inteiro maior ou igual a zero")
	}
	threshold, ok := parseNonNegative(form.MinimumThreshold)
	if !ok {
		return a.invalid("Estoque mínimo deve ser um número inteiro maior ou igual a zero")
	}
	in := client.ProductInput{Name: &name, Quantity: &qty, MinimumThreshold: &threshold}

	var err error
	if form.EditingID > 0 {
		_, err = a.api.UpdateProduct(ctx, form.EditingID, in)
	} else {
		_, err = a.api.CreateProduct(ctx, in)
	}
	if err != nil {
		return a.fail(err)
	}
	a.productForm = nil
	return a.RefreshProducts(ctx)
}

// DeleteProduct pide confirmación, elimina y recarga.
func (a *App) DeleteProduct(ctx context.Context, id int64) error {
	name := fmt.Sprintf("#%d", id)
	if p := a.findProduct(id); p != nil {
		name = p.Name
	}
	if !a.ui.Confirm(fmt.Sprintf("Excluir o produto %q? O histórico de movimentações também será removido.", name)) {
		return nil
	}
	if err := a.api.DeleteProduct(ctx, id); err != nil {
		return a.fail(err)
	}
	return a.RefreshProducts(ctx)
}

// Replenishment lista de reposición del servidor.
func (a *App) Replenishment(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	list, err := a.api.Replenishment(ctx)
	if err != nil {
		return nil, a.fail(err)
	}
	return list, nil
}

func (a *App) findProduct(id int64) *dto.ProductResponse {
	for i := range a.products {
		if a.products[i].ID == id {
			return &a.products[i]
		}
	}
	return nil
}

// ── Estoque ─────────────────────────────────────────────────────────────────

// RefreshMovements recarga el historial con el filtro actual.
func (a *App) RefreshMovements(ctx context.Context) error {
	list, err := a.api.ListMovements(ctx, a.historyFilter)
	if err != nil {
		return a.fail(err)
	}
	a.movements = list
	return nil
}

// FilterHistory filtra el historial por producto (nil = todos).
func (a *App) FilterHistory(ctx context.Context, productID *int64) error {
	a.historyFilter = productID
	return a.RefreshMovements(ctx)
}

// StartMovement abre el formulario de movimiento.
func (a *App) StartMovement() {
	a.movementForm = &MovementForm{Kind: "entry"}
}

// CancelMovementForm descarta el formulario.
func (a *App) CancelMovementForm() { a.movementForm = nil }

// RecordMovement valida y registra; avisa si el producto quedó bajo el mínimo.
func (a *App) RecordMovement(ctx context.Context, form MovementForm) (*dto.RecordMovementResponse, error) {
	a.movementForm = &form
	if a.session == nil {
		return nil, a.invalid("Faça login para registrar movimentações")
	}
	if form.ProductID <= 0 {
		return nil, a.invalid("Selecione um produto")
	}
	kind := strings.ToLower(strings.TrimSpace(form.Kind))
	if kind != "entry" && kind != "exit" {
		return nil, a.invalid("Tipo deve ser entrada (entry) ou saída (exit)")
	}
	qty, ok := parseNonNegative(form.Quantity)
	if !ok || qty == 0 {
		return nil, a.invalid("Quantidade deve ser um número inteiro positivo")
	}
	in := client.MovementInput{
		ProductID: form.ProductID,
		UserID:    a.session.UserID,
		Kind:      kind,
		Quantity:  qty,
	}
	if ts := strings.TrimSpace(form.Timestamp); ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, a.invalid("Data inválida (use o formato 2006-01-02T15:04:05Z07:00)")
		}
		in.Timestamp = &t
	}
	if note := strings.TrimSpace(form.Note); note != "" {
		in.Note = &note
	}

	out, err := a.api.RecordMovement(ctx, in)
	if err != nil {
		return nil, a.fail(err)
	}
	a.movementForm = nil
	if out.Product.BelowMinimum {
		a.ui.Alert(fmt.Sprintf("Atenção: %s está abaixo do estoque mínimo (%d < %d)",
			out.Product.Name, out.Product.Quantity, out.Product.MinimumThreshold))
	}
	if err := a.RefreshProducts(ctx); err != nil {
		return out, err
	}
	return out, a.RefreshMovements(ctx)
}

func parseNonNegative(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
