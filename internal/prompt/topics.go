package prompt

import "github.com/abhisek/bitlit/internal/i18n"

// Topic is a curriculum entry with a localized label.
type Topic struct {
	Index  int                      `json:"index"`
	Labels map[i18n.Language]string `json:"labels"`
}

var topics = []map[i18n.Language]string{
	{i18n.English: "What is Bitcoin?", i18n.Spanish: "Que es Bitcoin?"},
	{i18n.English: "Why Bitcoin in El Salvador?", i18n.Spanish: "Por que Bitcoin en El Salvador?"},
	{i18n.English: "Satoshis & Units", i18n.Spanish: "Satoshis y Unidades"},
	{i18n.English: "Wallets & Security", i18n.Spanish: "Billeteras y Seguridad"},
	{i18n.English: "Lightning Network", i18n.Spanish: "Red Lightning"},
	{i18n.English: "HODL & Saving", i18n.Spanish: "HODL y Ahorro"},
	{i18n.English: "Avoiding Scams", i18n.Spanish: "Evitando Estafas"},
}

// TopicCount is the number of curriculum topics.
var TopicCount = len(topics)

// Topics returns the curriculum in order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	for i, labels := range topics {
		cp := make(map[i18n.Language]string, len(labels))
		for k, v := range labels {
			cp[k] = v
		}
		out[i] = Topic{Index: i, Labels: cp}
	}
	return out
}

// ClampTopic maps an out-of-range index to the first topic.
func ClampTopic(index int) int {
	if index < 0 || index >= len(topics) {
		return 0
	}
	return index
}

// TopicLabel returns the label of topic index in lang. Out-of-range
// indexes resolve to the first topic and unsupported languages to the
// default language.
func TopicLabel(index int, lang i18n.Language) string {
	labels := topics[ClampTopic(index)]
	if s, ok := labels[lang]; ok {
		return s
	}
	return labels[i18n.Default]
}
