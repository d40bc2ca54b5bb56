package category

// Palette used by the mobile client.
const (
	colorPrimary = "#4F46E5"
	colorRed     = "#EF4444"
	colorGreen   = "#22C55E"
	colorBlue    = "#3B82F6"
	colorOrange  = "#F97316"
	colorPink    = "#EC4899"
	colorAccent  = "#8B5CF6"
	colorCyan    = "#06B6D4"
)

// DefaultCategories is the built-in category table.
func DefaultCategories() []Category {
	return []Category{
		{Key: "dining", Name: "Ristorazione e Bar", Color: colorOrange, Icon: "fork.knife"},
		{Key: "groceries", Name: "Supermercati e Alimentari", Color: colorGreen, Icon: "basket.fill"},
		{Key: "fuel", Name: "Carburante e Auto", Color: colorBlue, Icon: "fuelpump.fill"},
		{Key: "transport", Name: "Trasporti", Color: colorBlue, Icon: "tram.fill"},
		{Key: "shopping", Name: "Shopping e Abbigliamento", Color: colorPink, Icon: "bag.fill"},
		{Key: "subscriptions", Name: "Abbonamenti e Servizi Digitali", Color: colorAccent, Icon: "play.tv.fill"},
		{Key: "travel", Name: "Alloggi e Viaggi", Color: colorCyan, Icon: "airplane"},
		{Key: "transfers", Name: "Pagamenti e Trasferimenti", Color: colorRed, Icon: "arrow.left.arrow.right"},
		{Key: "misc", Name: "Varie", Color: colorPrimary, Icon: "tag.fill"},
		{Key: UncategorizedKey, Name: "Uncategorized", Color: colorPrimary, Icon: "questionmark.circle.fill"},
	}
}

// DefaultRules is the built-in keyword list. Order matters: coffee shops and bars come
// before the generic "market" keyword so "Starbucks Market" stays in dining.
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "starbucks", Category: "dining"},
		{Keyword: "coffee", Category: "dining"},
		{Keyword: "caffè", Category: "dining"},
		{Keyword: "caffe", Category: "dining"},
		{Keyword: "cafe", Category: "dining"},
		{Keyword: "bar big", Category: "dining"},
		{Keyword: "cannavina bar", Category: "dining"},
		{Keyword: "mcdonald's", Category: "dining"},
		{Keyword: "burger king", Category: "dining"},
		{Keyword: "kfc", Category: "dining"},
		{Keyword: "ristorante", Category: "dining"},
		{Keyword: "ristorazione", Category: "dining"},
		{Keyword: "vino e biga", Category: "dining"},
		{Keyword: "big bang sandwich", Category: "dining"},
		{Keyword: "pizza", Category: "dining"},
		{Keyword: "piadineria", Category: "dining"},
		{Keyword: "mastroianni", Category: "dining"},
		{Keyword: "mariano balato", Category: "dining"},

		{Keyword: "disney+", Category: "subscriptions"},
		{Keyword: "netflix", Category: "subscriptions"},
		{Keyword: "google one", Category: "subscriptions"},
		{Keyword: "amazon", Category: "subscriptions"},
		{Keyword: "g2a.com", Category: "subscriptions"},

		{Keyword: "carrefour", Category: "groceries"},
		{Keyword: "lidl", Category: "groceries"},
		{Keyword: "sole 365", Category: "groceries"},
		{Keyword: "green garden", Category: "groceries"},
		{Keyword: "pantry", Category: "groceries"},
		{Keyword: "market", Category: "groceries"},

		{Keyword: "uber", Category: "transport"},
		{Keyword: "free now", Category: "transport"},
		{Keyword: "trenitalia", Category: "transport"},
		{Keyword: "taxi", Category: "transport"},
		{Keyword: "flight", Category: "transport"},
		{Keyword: "airport", Category: "transport"},

		{Keyword: "transfer to revolut user", Category: "transfers"},
		{Keyword: "transfer from revolut user", Category: "transfers"},
		{Keyword: "payment from", Category: "transfers"},
		{Keyword: "balance migration", Category: "transfers"},
		{Keyword: "sumup", Category: "transfers"},

		{Keyword: "zalando", Category: "shopping"},
		{Keyword: "douglas", Category: "shopping"},
		{Keyword: "vinted", Category: "shopping"},
		{Keyword: "proshop", Category: "shopping"},

		{Keyword: "airbnb", Category: "travel"},
		{Keyword: "hotel", Category: "travel"},
		{Keyword: "booking", Category: "travel"},
		{Keyword: "vacation", Category: "travel"},

		{Keyword: "samnite", Category: "misc"},
		{Keyword: "samnet", Category: "misc"},
		{Keyword: "margroup societa", Category: "misc"},
		{Keyword: "colella group", Category: "misc"},
		{Keyword: "fratelli della minerva", Category: "misc"},
		{Keyword: "officinastu", Category: "misc"},
		{Keyword: "studiouno grafhic foto", Category: "misc"},
		{Keyword: "moneynet", Category: "misc"},

		{Keyword: "fuel", Category: "fuel"},
		{Keyword: "petrol", Category: "fuel"},
		{Keyword: "gas", Category: "fuel"},
	}
}

// Default returns a classifier built from the built-in tables.
func Default() *Classifier {
	c, err := NewClassifier(DefaultCategories(), DefaultRules())
	if err != nil {
		panic("category: invalid built-in tables: " + err.Error())
	}
	return c
}
