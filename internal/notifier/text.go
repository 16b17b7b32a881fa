package notifier

import "strings"

var htmlTags = strings.NewReplacer("<b>", "", "</b>", "", "<i>", "", "</i>", "")

// stripHTML drops the Telegram formatting tags for plain-text channels.
func stripHTML(s string) string {
	return htmlTags.Replace(s)
}
