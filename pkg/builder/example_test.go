package builder_test

import (
	"fmt"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
)

func Example() {
	store := catalog.NewStore(nil)
	_ = store.LoadData(catalog.FormatJSON, []byte(`[
	  {"category": "frames", "manufacturer": "Canyon", "model": "Roadster", "slug": "roadster",
	   "weight": 1500, "price": 250, "currency": "USD",
	   "positions": {"default": {"top": "10%", "left": "5%", "width": "80%", "height": "60%"}}},
	  {"category": "front_wheel", "manufacturer": "Zipp", "model": "303", "price": 100,
	   "positions": {"roadster": {"top": "390px", "left": "510px", "width": "255px", "height": "260px"}}}
	]`))

	s := builder.NewSession(store, nil)
	_, _ = s.SelectKey(catalog.Frames, "roadster")
	_ = s.Advance()
	_, _ = s.SelectKey(catalog.FrontWheel, "303")

	plan := s.Plan()
	for _, l := range plan.Layers {
		fmt.Printf("%-12s z=%-2d %s (%s)\n", l.Category, l.ZIndex, l.Rect, l.Tier)
	}
	fmt.Println(plan.Totals.WeightText(), "|", plan.Totals.PriceText())
	// Output:
	// front_wheel  z=5  top:60.000% left:60.000% width:30.000% height:40.000% (frame)
	// frames       z=10 top:10% left:5% width:80% height:60% (default)
	// 1500 g | 350 USD
}
