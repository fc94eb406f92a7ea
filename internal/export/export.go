// Package export renders registration snapshots as CSV reports for offline use.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

const DefaultTitle = "BIEW Registrations Report"

var columns = []string{
	"ID",
	"Submitted At",
	"Registration Type",
	"Full Name",
	"Organization",
	"Position",
	"Email",
	"Phone",
	"Category",
	"Participants",
	"Booth Requirements",
	"Special Requirements",
	"Payment Preference",
	"Additional Info",
	"Fee",
	"Status",
}

// Generator writes reports. Output depends only on the registrations and the
// generation time passed in.
type Generator struct {
	Title string
	Fees  model.FeeTable
}

func NewGenerator(fees model.FeeTable) *Generator {
	return &Generator{Title: DefaultTitle, Fees: fees}
}

// Filename is the download name for a report generated at t.
func Filename(t time.Time) string {
	return "biew-registrations-" + t.UTC().Format("2006-01-02") + ".csv"
}

// Write renders regs in the order given: a header block, one quoted row per
// registration and a summary footer with counts by type and status.
func (g *Generator) Write(w io.Writer, regs []model.Registration, generatedAt time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", g.Title)
	fmt.Fprintf(bw, "Generated: %s\n", generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(bw, "Total Registrations: %d\n", len(regs))
	bw.WriteString("\n")

	writeRecord(bw, columns)

	byType := make(map[model.RegistrationType]int, len(model.RegistrationTypes))
	byStatus := make(map[model.Status]int, len(model.Statuses))
	for _, reg := range regs {
		byType[reg.RegistrationType]++
		byStatus[reg.Status]++
		writeRecord(bw, g.row(reg))
	}

	bw.WriteString("\n")
	bw.WriteString("Summary\n")
	for _, t := range model.RegistrationTypes {
		writeRecord(bw, []string{t.Label(), strconv.Itoa(byType[t])})
	}
	for _, s := range model.Statuses {
		writeRecord(bw, []string{strings.ToUpper(string(s)), strconv.Itoa(byStatus[s])})
	}

	return bw.Flush()
}

func (g *Generator) row(reg model.Registration) []string {
	return []string{
		strconv.FormatInt(reg.ID, 10),
		reg.SubmittedAt.UTC().Format("2006-01-02 15:04:05"),
		reg.RegistrationType.Label(),
		reg.FullName,
		reg.OrganizationName,
		reg.Position,
		reg.Email,
		reg.Phone,
		reg.Category,
		deref(reg.ParticipantCount),
		deref(reg.BoothRequirements),
		deref(reg.SpecialRequirements),
		deref(reg.PaymentPreference),
		deref(reg.AdditionalInfo),
		g.Fees.Format(reg.RegistrationType),
		strings.ToUpper(string(reg.Status)),
	}
}

// writeRecord quotes every field and doubles embedded quotes.
func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
