package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/mercado-api/internal/application/dto"
)

// terminal implementa app.UI sobre stdin/stdout.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) ask(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return t.in.Text(), nil
}

func (t *terminal) askDefault(label, def string) string {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	v, err := t.ask(label + ": ")
	if err != nil || strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (t *terminal) println(s string) { fmt.Fprintln(t.out, s) }

// Alert mensaje bloqueante: espera Enter.
func (t *terminal) Alert(msg string) {
	fmt.Fprintf(t.out, "\n!! %s\n", msg)
	_, _ = t.ask("(Enter para continuar) ")
}

// Confirm pregunta s/N.
func (t *terminal) Confirm(msg string) bool {
	v, err := t.ask(msg + " [s/N] ")
	if err != nil {
		return false
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "s" || v == "sim"
}

func (t *terminal) products(list []dto.ProductResponse) {
	if len(list) == 0 {
		t.println("Nenhum produto.")
		return
	}
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tQTD\tMÍNIMO\t")
	for _, p := range list {
		flag := ""
		if p.BelowMinimum {
			flag = "abaixo do mínimo"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", p.ID, p.Name, p.Quantity, p.MinimumThreshold, flag)
	}
	_ = w.Flush()
}

func (t *terminal) movements(list []dto.MovementResponse) {
	if len(list) == 0 {
		t.println("Nenhuma movimentação.")
		return
	}
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATA\tPRODUTO\tTIPO\tQTD\tUSUÁRIO\tOBS")
	for _, m := range list {
		note := ""
		if m.Note != nil {
			note = *m.Note
		}
		kind := "entrada"
		if m.Kind == "exit" {
			kind = "saída"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			m.Timestamp.Local().Format("02/01/2006 15:04"), m.ProductName, kind, m.Quantity, m.UserName, note)
	}
	_ = w.Flush()
}

func (t *terminal) replenishment(list []dto.ReplenishmentSuggestionDTO) {
	if len(list) == 0 {
		t.println("Nenhum produto abaixo do mínimo.")
		return
	}
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIOR.\tPRODUTO\tATUAL\tMÍNIMO\tIDEAL\tPEDIR\tSAÍDAS 30D")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			s.Priority, s.ProductName, s.CurrentStock, s.MinimumThreshold, s.IdealStock, s.SuggestedOrderQty, s.UnitsOutLastDays)
	}
	_ = w.Flush()
}

func (t *terminal) summary(s *dto.DashboardSummaryDTO) {
	fmt.Fprintf(t.out, "Resumo de %s\n", s.DateLabel)
	fmt.Fprintf(t.out, "Produtos: %d (%d abaixo do mínimo), %d unidades em estoque\n",
		s.ProductCount, s.BelowMinimumCount, s.TotalUnits)
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERÍODO\tMOVIMENTAÇÕES\tENTRADAS\tSAÍDAS")
	fmt.Fprintf(w, "hoje\t%d\t%d\t%d\n", s.Today.Movements, s.Today.EntryUnits, s.Today.ExitUnits)
	fmt.Fprintf(w, "mês\t%d\t%d\t%d\n", s.Month.Movements, s.Month.EntryUnits, s.Month.ExitUnits)
	_ = w.Flush()
	for i, e := range s.TopExits {
		fmt.Fprintf(t.out, "%d. %s: %d saídas\n", i+1, e.ProductName, e.UnitsOut)
	}
}
