package report

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/crewchief/internal/garage"
	"github.com/fatih/color"
)

var priorityColors = map[garage.Priority]func(a ...any) string{
	garage.PriorityHigh:   color.New(color.FgRed, color.Bold).SprintFunc(),
	garage.PriorityMedium: color.New(color.FgYellow, color.Bold).SprintFunc(),
	garage.PriorityLow:    color.New(color.FgGreen, color.Bold).SprintFunc(),
}

// Summary prints an AI garage summary as rendered markdown.
func (p *Printer) Summary(text string) {
	p.Banner("Garage Summary")
	p.Markdown(text)
}

// Suggestions prints one block per car.
//
// Example output:
//
//	Weekend (1994 Mazda Miata)  [HIGH]
//	  • Flush brake fluid before the next event
//	  Reasoning: last flush was over a year ago
func (p *Printer) Suggestions(suggestions []garage.Suggestion) {
	p.Banner("Maintenance Suggestions")
	if len(suggestions) == 0 {
		p.Empty("No cars in the garage yet. Add one with: crewchief add-car")
		return
	}
	for i, s := range suggestions {
		if i > 0 {
			p.println(dimColor(rule))
		}
		p.printf("%s  %s\n", headerColor(s.CarLabel), priorityTag(s.Priority))
		for _, a := range s.Actions {
			p.printf("  • %s\n", a)
		}
		if s.Reasoning != "" {
			p.printf("  %s %s\n", labelColor("Reasoning:"), s.Reasoning)
		}
	}
}

func priorityTag(pr garage.Priority) string {
	tag := "[" + strings.ToUpper(string(pr)) + "]"
	if c, ok := priorityColors[pr]; ok {
		return c(tag)
	}
	return tag
}

// Checklist prints a track day checklist.
func (p *Printer) Checklist(list garage.Checklist) {
	p.Banner("Track Prep: " + list.CarLabel)
	p.checklistSection("Critical", list.CriticalItems, errorColor)
	p.checklistSection("Recommended", list.RecommendedItems, warnColor)
	if list.Notes != "" {
		p.println()
		p.printf("  %s %s\n", labelColor("Notes:"), list.Notes)
	}
}

func (p *Printer) checklistSection(title string, items []string, c func(a ...any) string) {
	p.println(c(fmt.Sprintf("%s (%d)", title, len(items))))
	if len(items) == 0 {
		p.println("  " + dimColor("none"))
		return
	}
	for _, it := range items {
		p.printf("  [ ] %s\n", it)
	}
}
