// ABOUTME: Built-in structural selectors and multilingual consent/embed text patterns
// ABOUTME: English, Dutch, French and German are always present; more locales come via options

package preprocess

// DefaultSelectors match known cookie-consent dialogs and embed placeholders
var DefaultSelectors = []string{
	// consent management platforms
	"#onetrust-consent-sdk",
	"#onetrust-banner-sdk",
	"#CybotCookiebotDialog",
	"#didomi-host",
	"#qc-cmp2-container",
	".qc-cmp2-container",
	"#usercentrics-root",
	".fc-consent-root",
	".cc-window",
	".cmp-container",
	"[id^='sp_message_container']",
	"[class*='cookie-banner']",
	"[class*='cookie-consent']",
	"[class*='cookie-notice']",
	"[class*='cookiebar']",
	"[id*='cookie-banner']",
	"[id*='cookie-consent']",
	"[aria-label='cookieconsent']",
	// embed placeholders
	".embed-placeholder",
	".social-embed-placeholder",
	".iframe-placeholder",
	".consent-placeholder",
	".privacy-placeholder",
	"[data-consent-placeholder]",
	"[data-embed-placeholder]",
	"[class*='embed-consent']",
	"[class*='consent-wall']",
}

// textCandidates are the elements whose text is matched against the consent patterns
const textCandidates = "div, section, aside, figure, p, span, dialog, dl"

// DefaultTextPatterns are the consent and embed notice patterns per locale
var DefaultTextPatterns = map[string][]string{
	"en": {
		`(?i)\bwe use cookies\b`,
		`(?i)\baccept (all )?cookies\b`,
		`(?i)\bcookie (settings|preferences|policy)\b`,
		`(?i)\bmanage (your )?(consent|cookie)`,
		`(?i)\bthis content is (hosted|provided) by a third party\b`,
		`(?i)\b(enable|allow) (javascript|cookies) to (view|see|display)\b`,
		`(?i)\bto view this content\b`,
	},
	"nl": {
		`(?i)\bwij gebruiken cookies\b`,
		`(?i)\bwe gebruiken cookies\b`,
		`(?i)\b(alle )?cookies accepteren\b`,
		`(?i)\baccepteer (alle )?cookies\b`,
		`(?i)\bcookie-?instellingen\b`,
		`(?i)\bexterne (content|inhoud)\b`,
		`(?i)\bom deze (content|inhoud) te (bekijken|zien)\b`,
	},
	"fr": {
		`(?i)\bnous utilisons des cookies\b`,
		`(?i)\baccepter (tous )?les cookies\b`,
		`(?i)\bparamètres des cookies\b`,
		`(?i)\bgérer (mes|vos) (choix|préférences)\b`,
		`(?i)\bce contenu est (hébergé|bloqué)\b`,
		`(?i)\bpour afficher ce contenu\b`,
	},
	"de": {
		`(?i)\bwir verwenden cookies\b`,
		`(?i)\balle cookies akzeptieren\b`,
		`(?i)\bcookie-?einstellungen\b`,
		`(?i)\bexterne[rn]? inhalte?\b`,
		`(?i)\binhalte von drittanbietern\b`,
		`(?i)\bum diesen inhalt (anzuzeigen|zu sehen)\b`,
		`(?i)\bzustimmung (erteilen|verwalten)\b`,
	},
}
