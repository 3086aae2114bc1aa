package grounding

import "strings"

type faqEntry struct {
	keyword string
	answer  string
}

const (
	faqPasswordAnswer = `To reset your password, go to Settings > Account > Change Password. You can also click "Forgot Password" on the login page to receive a reset link via email.`

	// FAQNoMatch is returned when no keyword matches.
	FAQNoMatch = "Sorry, I don't have an answer for that. Let me connect you with a human agent."
)

// faqs is searched in order; the first keyword contained in the question wins.
var faqs = []faqEntry{
	{keyword: "password", answer: faqPasswordAnswer},
	{keyword: "reset", answer: faqPasswordAnswer},
	{keyword: "account", answer: `For account-related issues, go to Settings > Account. If your account is locked, use the "Forgot Password" link on the login page or contact us at support@example.com.`},
	{keyword: "shipping", answer: "Standard shipping takes 5-7 business days. Express shipping takes 2-3 business days."},
	{keyword: "returns", answer: "You can return items within 30 days of delivery. Items must be in original condition with tags attached."},
	{keyword: "refund", answer: "Refunds are processed within 5-10 business days after we receive your returned item."},
	{keyword: "payment", answer: "We accept Visa, MasterCard, American Express, PayPal, and Apple Pay."},
	{keyword: "contact", answer: "Email us at support@example.com or call 1-800-SUPPORT (Mon-Fri 9am-6pm EST)."},
	{keyword: "cancel", answer: "To cancel an order, contact us within 24 hours of placing it. After that, you may need to return the item once delivered."},
	{keyword: "exchange", answer: `You can exchange items within 30 days of delivery. Visit your order page and select "Exchange Item".`},
}

// AnswerFAQ performs a case-insensitive substring lookup over the FAQ
// keywords.
func AnswerFAQ(question string) string {
	q := strings.ToLower(question)
	for _, faq := range faqs {
		if strings.Contains(q, faq.keyword) {
			return faq.answer
		}
	}
	return FAQNoMatch
}
