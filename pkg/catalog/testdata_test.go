package catalog

const sampleJSON = `[
  {"category": "frames", "manufacturer": "Canyon", "model": "Roadster CF", "slug": "roadster",
   "weight": 950, "price": 1800, "currency": "EUR", "image": "frames/roadster.png",
   "positions": {"default": {"top": "10%", "left": "5%", "width": "80%", "height": "60%"}}},
  {"category": "frames", "manufacturer": "Specialized", "model": "Aethos", "slug": "aethos",
   "weight": 585, "price": 4200, "currency": "USD"},
  {"category": "front_wheel", "manufacturer": "DT Swiss", "model": "ARC 1100", "weight": 690,
   "price": "n/a",
   "positions": {"roadster": {"top": "390px", "left": "510px", "width": "255px", "height": "260px"},
                 "default": {"top": "55%", "left": "58%", "width": "30%", "height": "40%"}}},
  {"category": "front_wheel", "manufacturer": "Zipp", "model": "303 Firecrest", "weight": 1530, "price": 1300},
  {"category": "saddles", "manufacturer": "Fizik", "model": "Antares Versus", "weight": null}
]`

const sampleTOML = `
[[parts]]
category = "frames"
manufacturer = "Canyon"
model = "Roadster CF"
slug = "roadster"
weight = 950
price = 1800.5
currency = "EUR"

[parts.positions.default]
top = "10%"
left = "5%"
width = "80%"
height = "60%"

[[parts]]
category = "saddles"
manufacturer = "Fizik"
model = "Antares Versus"
weight = "unknown"
`

const sampleYAML = `
parts:
  - category: frames
    manufacturer: Canyon
    model: Roadster CF
    slug: roadster
    weight: 950
    positions:
      roadster:
        top: 65px
        left: 42.5px
  - category: handlebars
    manufacturer: Enve
    model: SES Aero
    price: 400
    currency: USD
`
