package meal

// ExportItem is one entry of the export file. Ids and creation stamps are
// deliberately left out so an export can be re-imported as new meals.
type ExportItem struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Time        string  `json:"time"`
	Ingredients string  `json:"ingredients"`
	Date        string  `json:"date"`
}

// ExportItems flattens meals into export entries, keeping their order.
func ExportItems(meals []Meal) []ExportItem {
	items := make([]ExportItem, 0, len(meals))
	for _, m := range meals {
		t := m.Time
		if t == "" {
			t = DefaultTime
		}
		items = append(items, ExportItem{
			Name:        m.Name,
			Calories:    m.Calories,
			Time:        t,
			Ingredients: m.Ingredients,
			Date:        m.Date,
		})
	}
	return items
}

// TemplateItems is the example file offered when there is nothing to export.
func TemplateItems(date string) []ExportItem {
	return []ExportItem{
		{
			Name:        "Example Meal 1",
			Calories:    350,
			Time:        "08:00",
			Ingredients: "2 eggs, 1 slice toast, 1 tbsp butter",
			Date:        date,
		},
		{
			Name:        "Example Meal 2",
			Calories:    500,
			Time:        "13:00",
			Ingredients: "Grilled chicken breast, rice, vegetables",
			Date:        date,
		},
		{
			Name:        "Example Meal 3",
			Calories:    300,
			Time:        "19:00",
			Ingredients: "Salad with olive oil dressing",
			Date:        date,
		},
	}
}

// ExportFileName names an export file written on the given day.
func ExportFileName(hasData bool, today string) string {
	if !hasData {
		return "olive-template.json"
	}
	return "olive-export-" + today + ".json"
}
