package client

import (
	"fmt"
	"net/url"
)

// ShareSummary builds the human-readable text that accompanies a shared
// quotation.
func ShareSummary(machine *Machine, clientName string, total float64) string {
	if machine == nil {
		return ""
	}
	return fmt.Sprintf("Cotización Agromaq\n\nProducto: %s\nCliente: %s\nPrecio: $%.2f",
		machine.Name, clientName, total)
}

// WhatsAppShareURL is the text-only share fallback: when no system share
// surface can take the PDF itself, the summary rides a wa.me deep link. The
// binary attachment is not transferable this way; that degradation is part
// of the documented behavior, not a bug.
func WhatsAppShareURL(text string) string {
	return "https://wa.me/?text=" + url.QueryEscape(text)
}
