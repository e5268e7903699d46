// Command mercado es el cliente de terminal de la API de inventario.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jhoicas/mercado-api/internal/client"
	"github.com/jhoicas/mercado-api/internal/client/app"
	"github.com/jhoicas/mercado-api/pkg/config"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: "development", Level: "warn", File: cfg.Log.File})
	log.Debug().Str("api_url", cfg.Client.APIURL).Msg("cliente iniciado")

	term := newTerminal(os.Stdin, os.Stdout)
	a := app.New(client.New(cfg.Client.APIURL, cfg.Client.Timeout), term)

	fmt.Fprintf(term.out, "Mercado (%s)\n", cfg.Client.APIURL)
	ctx := context.Background()
	for {
		line, err := term.ask(prompt(a))
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error().Err(err).Msg("leitura da entrada")
			}
			fmt.Fprintln(term.out)
			return
		}
		cmd, arg := splitCommand(line)
		if cmd == "" {
			continue
		}
		if cmd == "sair" {
			return
		}
		if err := dispatch(ctx, a, term, cmd, arg); err != nil {
			log.Debug().Err(err).Str("cmd", cmd).Msg("comando falhou")
		}
	}
}

func prompt(a *app.App) string {
	if s := a.Session(); s != nil {
		return fmt.Sprintf("[%s@%s]> ", s.Name, a.View())
	}
	return fmt.Sprintf("[%s]> ", a.View())
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// dispatch ejecuta el comando según la pantalla actual.
func dispatch(ctx context.Context, a *app.App, t *terminal, cmd, arg string) error {
	switch a.View() {
	case app.ViewLogin:
		return loginCommands(ctx, a, t, cmd)
	case app.ViewHome:
		return homeCommands(ctx, a, t, cmd)
	case app.ViewProducts:
		return productCommands(ctx, a, t, cmd, arg)
	case app.ViewStock:
		return stockCommands(ctx, a, t, cmd, arg)
	}
	return nil
}

func loginCommands(ctx context.Context, a *app.App, t *terminal, cmd string) error {
	switch cmd {
	case "entrar":
		email, _ := t.ask("E-mail: ")
		password, _ := t.ask("Senha: ")
		if err := a.Login(ctx, email, password); err != nil {
			return err
		}
		t.println("Bem-vindo, " + a.Session().Name)
	case "cadastrar":
		name, _ := t.ask("Nome: ")
		email, _ := t.ask("E-mail: ")
		password, _ := t.ask("Senha: ")
		if err := a.Register(ctx, name, email, password); err != nil {
			return err
		}
		t.println("Usuário cadastrado. Use 'entrar' para acessar.")
	default:
		t.println("Comandos: entrar, cadastrar, sair")
	}
	return nil
}

func homeCommands(ctx context.Context, a *app.App, t *terminal, cmd string) error {
	switch cmd {
	case "produtos":
		if err := a.Open(ctx, app.ViewProducts); err != nil {
			return err
		}
		t.products(a.Products())
	case "estoque":
		if err := a.Open(ctx, app.ViewStock); err != nil {
			return err
		}
		t.products(a.Products())
		t.movements(a.Movements())
	case "resumo":
		summary, err := a.Summary(ctx)
		if err != nil {
			return err
		}
		t.summary(summary)
	case "logout":
		a.Logout()
	default:
		t.println("Comandos: produtos, estoque, resumo, logout, sair")
	}
	return nil
}

func productCommands(ctx context.Context, a *app.App, t *terminal, cmd, arg string) error {
	switch cmd {
	case "listar":
		if err := a.Search(ctx, arg); err != nil {
			return err
		}
		t.products(a.Products())
	case "novo":
		a.StartCreate()
		return saveProductForm(ctx, a, t)
	case "editar":
		id, err := parseID(t, arg)
		if err != nil {
			return err
		}
		if err := a.StartEdit(id); err != nil {
			return err
		}
		return saveProductForm(ctx, a, t)
	case "excluir":
		id, err := parseID(t, arg)
		if err != nil {
			return err
		}
		if err := a.DeleteProduct(ctx, id); err != nil {
			return err
		}
		t.products(a.Products())
	case "voltar":
		a.Back()
	default:
		t.println("Comandos: listar [busca], novo, editar <id>, excluir <id>, voltar, sair")
	}
	return nil
}

// saveProductForm pide cada campo mostrando el valor actual; Enter lo conserva.
func saveProductForm(ctx context.Context, a *app.App, t *terminal) error {
	form := *a.ProductForm()
	form.Name = t.askDefault("Nome", form.Name)
	form.Quantity = t.askDefault("Quantidade", form.Quantity)
	form.MinimumThreshold = t.askDefault("Estoque mínimo", form.MinimumThreshold)
	if err := a.SaveProduct(ctx, form); err != nil {
		a.CancelProductForm()
		return err
	}
	t.println("Produto salvo.")
	t.products(a.Products())
	return nil
}

func stockCommands(ctx context.Context, a *app.App, t *terminal, cmd, arg string) error {
	switch cmd {
	case "mov":
		a.StartMovement()
		form := *a.MovementForm()
		id, err := parseID(t, t.askDefault("Produto (id)", ""))
		if err != nil {
			a.CancelMovementForm()
			return err
		}
		form.ProductID = id
		form.Kind = t.askDefault("Tipo (entry/exit)", form.Kind)
		form.Quantity = t.askDefault("Quantidade", "")
		form.Timestamp = t.askDefault("Data RFC 3339 (vazio = agora)", "")
		form.Note = t.askDefault("Observação", "")
		out, err := a.RecordMovement(ctx, form)
		if err != nil {
			a.CancelMovementForm()
			return err
		}
		t.println(fmt.Sprintf("Movimentação registrada. %s: %d em estoque.", out.Product.Name, out.Product.Quantity))
		t.movements(a.Movements())
	case "historico":
		var filter *int64
		if arg != "" {
			id, err := parseID(t, arg)
			if err != nil {
				return err
			}
			filter = &id
		}
		if err := a.FilterHistory(ctx, filter); err != nil {
			return err
		}
		t.movements(a.Movements())
	case "reposicao":
		list, err := a.Replenishment(ctx)
		if err != nil {
			return err
		}
		t.replenishment(list)
	case "voltar":
		a.Back()
	default:
		t.println("Comandos: mov, historico [id], reposicao, voltar, sair")
	}
	return nil
}

func parseID(t *terminal, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		t.Alert("Informe um id numérico válido")
		return 0, fmt.Errorf("id inválido: %q", s)
	}
	return id, nil
}
