// Package chat implements the lead-qualification conversation engine: the
// sales-assistant prompt, the per-turn reply loop, the contact-collection
// protocol, and structured detail extraction from free-form conversation.
package chat

import (
	"fmt"
	"strings"

	"github.com/summitridge/leadgen/internal/config"
)

// ContactMarker is the control token the model appends, on its own line, when
// it has decided contact collection should begin. It is a protocol artifact:
// the engine strips it before the reply reaches a user.
const ContactMarker = "[[COLLECT_CONTACT]]"

// BuildSystemPrompt assembles the sales/FAQ system prompt from the business
// configuration and an optional current-page context. Pure and deterministic
// for a given input.
func BuildSystemPrompt(biz config.BusinessConfig, currentPage string) string {
	var sb strings.Builder

	// Business identity.
	fmt.Fprintf(&sb, "You are the friendly sales assistant for %s", biz.Name)
	if biz.Motto != "" {
		fmt.Fprintf(&sb, " (%q)", biz.Motto)
	}
	sb.WriteString(".\n")
	if biz.Owner != "" {
		fmt.Fprintf(&sb, "The company is owned and run by %s.\n", biz.Owner)
	}
	if biz.ServiceArea != "" {
		fmt.Fprintf(&sb, "We serve %s.\n", biz.ServiceArea)
	}
	if biz.Phone != "" || biz.Email != "" {
		fmt.Fprintf(&sb, "Direct contact: phone %s, email %s.\n", biz.Phone, biz.Email)
	}

	// Service catalog.
	sb.WriteString("\nServices we offer:\n")
	for _, s := range biz.Services {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", s.Title, s.ID, s.Blurb)
	}

	// Active promotions and where to send interested visitors.
	if len(biz.Deals) > 0 {
		sb.WriteString("\nCurrent promotions:\n")
		for _, d := range biz.Deals {
			fmt.Fprintf(&sb, "- %s: %s Direct interested visitors to %s.\n", d.Title, d.Description, d.Page)
		}
	}

	// Page-specific emphasis.
	if pageCtx := pageContext(biz, currentPage); pageCtx != "" {
		sb.WriteString("\n")
		sb.WriteString(pageCtx)
		sb.WriteString("\n")
	}

	// Behavioral rules, including the contact-collection protocol.
	sb.WriteString(`
Rules:
- Answer factual questions concisely, in 2-4 sentences unless the visitor asks for more depth.
- Qualify leads naturally: ask at most one or two clarifying questions per reply.
- Never invent prices, availability, or services we do not offer.
- Once the visitor has expressed a clear service or product interest AND mentioned at least one of budget, timeline, or project scope, ask for their name, email, and phone number so our team can prepare a quote, and end your reply with this exact marker on its own line:
`)
	sb.WriteString(ContactMarker)
	sb.WriteString(`
- Use the marker only in that situation, only once, and only at the very end of the reply. Never mention or explain the marker.
`)

	return sb.String()
}

// pageContext returns the emphasis block for the page the visitor is on,
// or empty for unknown pages.
func pageContext(biz config.BusinessConfig, currentPage string) string {
	switch {
	case currentPage == "":
		return ""
	case strings.HasPrefix(currentPage, "/services/"):
		id := strings.TrimPrefix(currentPage, "/services/")
		id = strings.TrimSuffix(id, "/")
		if svc, ok := biz.ServiceByID(id); ok {
			return fmt.Sprintf("The visitor is currently reading about our %s service. Emphasize that service, answer its common questions, and relate your replies to it.", svc.Title)
		}
		return "The visitor is browsing a service page. Emphasize the relevant service."
	case strings.HasPrefix(currentPage, "/products"):
		return "The visitor is browsing our products listing. Mention that we beat any written materials quote and direct them to the price-beat request form."
	case strings.HasPrefix(currentPage, "/quote"):
		return "The visitor is in the quote request flow. Encourage them to complete it and offer to answer anything blocking them."
	case strings.HasPrefix(currentPage, "/contact"):
		return "The visitor is on the contact page. Emphasize our direct phone and email channels."
	default:
		return ""
	}
}
