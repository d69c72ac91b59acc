package dialog

import (
	"fmt"
	"strings"
	"time"

	"farelink/internal/flights"
)

// formatAnswer renders the winning itinerary for chat delivery. Times
// are shown as the supplier reported them (local to each airport).
func formatAnswer(it *flights.Itinerary, alternatives []flights.Itinerary, lang string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✈️ %s → %s · %s\n", it.Origin, it.Destination, it.DepartureDate))
	writeDirection(&b, it.Outbound)
	if len(it.Inbound) > 0 {
		b.WriteString(fmt.Sprintf("\n🔁 %s → %s · %s\n", it.Destination, it.Origin, it.ReturnDate))
		writeDirection(&b, it.Inbound)
	}

	b.WriteString(fmt.Sprintf("\n💰 %.2f %s", it.Price.Total, it.Price.Currency))
	if it.Price.Base > 0 && it.Price.Taxes > 0 {
		b.WriteString(fmt.Sprintf(" (%.2f + %.2f taxes)", it.Price.Base, it.Price.Taxes))
	}
	b.WriteString("\n")

	b.WriteString("🧳 ")
	switch {
	case !it.Baggage.Specified:
		b.WriteString(baggageUnknownLabel(lang))
	case it.Baggage.Description != "":
		b.WriteString(it.Baggage.Description)
	case it.Baggage.Pieces > 0 && it.Baggage.Weight != "":
		b.WriteString(fmt.Sprintf("%d x %s checked baggage", it.Baggage.Pieces, it.Baggage.Weight))
	case it.Baggage.Weight != "":
		b.WriteString(it.Baggage.Weight + " checked baggage")
	default:
		b.WriteString(fmt.Sprintf("%d checked bag(s)", it.Baggage.Pieces))
	}
	b.WriteString("\n")

	if len(alternatives) > 0 {
		b.WriteString("\n" + otherOptionsLabel(lang) + "\n")
		for i, alt := range alternatives {
			carrier := ""
			if cs := alt.Carriers(); len(cs) > 0 {
				carrier = cs[0] + " · "
			}
			b.WriteString(fmt.Sprintf("%d. %s%s, %.2f %s\n",
				i+2, carrier, alt.DepartureDate, alt.Price.Total, alt.Price.Currency))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeDirection(b *strings.Builder, segments []flights.Segment) {
	for _, seg := range segments {
		b.WriteString(fmt.Sprintf("  %s %s  %s %s → %s %s\n",
			seg.CarrierCode, seg.FlightNumber,
			seg.From, clock(seg.Departure),
			seg.To, clock(seg.Arrival)))
	}
	if stops := len(segments) - 1; stops > 0 {
		b.WriteString(fmt.Sprintf("  (%d stop(s))\n", stops))
	}
}

func clock(t time.Time) string {
	return t.Format("Mon 02 Jan 15:04")
}

var otherOptionsLabels = map[string]string{
	"en": "Other options:",
	"ur": "دیگر آپشنز:",
	"es": "Otras opciones:",
	"fr": "Autres options :",
	"de": "Weitere Optionen:",
	"ar": "خيارات أخرى:",
}

func otherOptionsLabel(lang string) string {
	if label, ok := otherOptionsLabels[lang]; ok {
		return label
	}
	return otherOptionsLabels["en"]
}

var baggageUnknownLabels = map[string]string{
	"en": "Baggage allowance not specified",
	"ur": "سامان کی گنجائش واضح نہیں",
	"es": "Equipaje no especificado",
	"fr": "Franchise bagages non précisée",
	"de": "Freigepäck nicht angegeben",
	"ar": "لم يُحدد المسموح من الأمتعة",
}

func baggageUnknownLabel(lang string) string {
	if label, ok := baggageUnknownLabels[lang]; ok {
		return label
	}
	return baggageUnknownLabels["en"]
}
