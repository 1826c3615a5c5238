package seed

import "complaint-portal/reference-service/internal/models"

// DefaultCategories are the complaint categories every installation starts with.
var DefaultCategories = []models.Category{
	{
		Name:                   "Water & Sanitation",
		NameKinyarwanda:        "Amazi n'Isuku",
		NameFrench:             "Eau et Assainissement",
		Description:            "Issues related to water supply, quality, and sanitation services",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'amazi, ubwiza bwayo, na serivisi z'isuku",
		DescriptionFrench:      "Problèmes liés à l'approvisionnement en eau, à la qualité et aux services d'assainissement",
		Department:             "WASAC",
		Icon:                   "droplet",
	},
	{
		Name:                   "Roads & Infrastructure",
		NameKinyarwanda:        "Imihanda n'Ibikorwa remezo",
		NameFrench:             "Routes et Infrastructure",
		Description:            "Issues related to roads, bridges, public buildings, and other infrastructure",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'imihanda, ibiraro, inyubako za leta, n'ibindi bikorwa remezo",
		DescriptionFrench:      "Problèmes liés aux routes, ponts, bâtiments publics et autres infrastructures",
		Department:             "RTDA",
		Icon:                   "road",
	},
	{
		Name:                   "Electricity",
		NameKinyarwanda:        "Amashanyarazi",
		NameFrench:             "Électricité",
		Description:            "Issues related to electricity supply, outages, and connections",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'amashanyarazi, ihagarara ryayo, no guhuza",
		DescriptionFrench:      "Problèmes liés à l'approvisionnement en électricité, aux pannes et aux connexions",
		Department:             "REG",
		Icon:                   "zap",
	},
	{
		Name:                   "Healthcare",
		NameKinyarwanda:        "Ubuzima",
		NameFrench:             "Soins de Santé",
		Description:            "Issues related to healthcare services, facilities, and access",
		DescriptionKinyarwanda: "Ibibazo bijyanye na serivisi z'ubuzima, ibikorwa remezo, no kubona ubuvuzi",
		DescriptionFrench:      "Problèmes liés aux services de santé, aux installations et à l'accès",
		Department:             "Ministry of Health",
		Icon:                   "activity",
	},
	{
		Name:                   "Education",
		NameKinyarwanda:        "Uburezi",
		NameFrench:             "Éducation",
		Description:            "Issues related to schools, universities, and educational services",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'amashuri, za kaminuza, na serivisi z'uburezi",
		DescriptionFrench:      "Problèmes liés aux écoles, aux universités et aux services éducatifs",
		Department:             "Ministry of Education",
		Icon:                   "book",
	},
	{
		Name:                   "Security",
		NameKinyarwanda:        "Umutekano",
		NameFrench:             "Sécurité",
		Description:            "Issues related to public safety, crime, and security concerns",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'umutekano rusange, ibyaha, n'ibindi bibazo by'umutekano",
		DescriptionFrench:      "Problèmes liés à la sécurité publique, à la criminalité et aux préoccupations de sécurité",
		Department:             "Rwanda National Police",
		Icon:                   "shield",
	},
	{
		Name:                   "Land & Housing",
		NameKinyarwanda:        "Ubutaka n'Imiturire",
		NameFrench:             "Terre et Logement",
		Description:            "Issues related to land disputes, housing, and property rights",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'impaka z'ubutaka, imiturire, n'uburenganzira ku mutungo",
		DescriptionFrench:      "Problèmes liés aux litiges fonciers, au logement et aux droits de propriété",
		Department:             "Rwanda Land Management and Use Authority",
		Icon:                   "home",
	},
	{
		Name:                   "Agriculture",
		NameKinyarwanda:        "Ubuhinzi n'Ubworozi",
		NameFrench:             "Agriculture",
		Description:            "Issues related to farming, livestock, and agricultural services",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'ubuhinzi, ubworozi, na serivisi z'ubuhinzi",
		DescriptionFrench:      "Problèmes liés à l'agriculture, à l'élevage et aux services agricoles",
		Department:             "Ministry of Agriculture",
		Icon:                   "plant",
	},
	{
		Name:                   "Environment",
		NameKinyarwanda:        "Ibidukikije",
		NameFrench:             "Environnement",
		Description:            "Issues related to environmental protection, pollution, and conservation",
		DescriptionKinyarwanda: "Ibibazo bijyanye no kurengera ibidukikije, ihumana, no kubungabunga",
		DescriptionFrench:      "Problèmes liés à la protection de l'environnement, à la pollution et à la conservation",
		Department:             "REMA",
		Icon:                   "tree",
	},
	{
		Name:                   "Public Transport",
		NameKinyarwanda:        "Gutwara Abantu n'Ibintu",
		NameFrench:             "Transport Public",
		Description:            "Issues related to public transportation services and infrastructure",
		DescriptionKinyarwanda: "Ibibazo bijyanye na serivisi zo gutwara abantu n'ibintu n'ibikorwa remezo",
		DescriptionFrench:      "Problèmes liés aux services de transport public et aux infrastructures",
		Department:             "RURA",
		Icon:                   "bus",
	},
	{
		Name:                   "ICT & Digital Services",
		NameKinyarwanda:        "Ikoranabuhanga na Serivisi Koranabuhanga",
		NameFrench:             "TIC et Services Numériques",
		Description:            "Issues related to internet, telecommunications, and digital government services",
		DescriptionKinyarwanda: "Ibibazo bijyanye n'interineti, itumanaho, na serivisi za leta koranabuhanga",
		DescriptionFrench:      "Problèmes liés à l'internet, aux télécommunications et aux services gouvernementaux numériques",
		Department:             "Ministry of ICT",
		Icon:                   "wifi",
	},
	{
		Name:                   "Corruption & Ethics",
		NameKinyarwanda:        "Ruswa n'Imyitwarire",
		NameFrench:             "Corruption et Éthique",
		Description:            "Reports of corruption, bribery, or unethical conduct by public officials",
		DescriptionKinyarwanda: "Raporo z'ibikorwa bya ruswa, gutanga ruswa, cyangwa imyitwarire mibi y'abakozi ba leta",
		DescriptionFrench:      "Rapports de corruption, de pots-de-vin ou de conduite contraire à l'éthique par des fonctionnaires",
		Department:             "Office of the Ombudsman",
		Icon:                   "alert-triangle",
	},
}

// cell groups the villages of one cell.
type cell struct {
	province, district, sector, cell string
	villages                         []string
}

var defaultCells = []cell{
	{"Kigali", "Nyarugenge", "Gitega", "Akabahizi", []string{"Gihanga", "Akinyambo", "Amahoro"}},
	{"Kigali", "Nyarugenge", "Gitega", "Kigarama", []string{"Ingenzi", "Umucyo"}},
	{"Kigali", "Gasabo", "Kacyiru", "Kamatamu", []string{"Kamutwa", "Kangondo"}},
	{"Kigali", "Gasabo", "Kimironko", "Bibare", []string{"Amajyambere"}},
	{"Kigali", "Kicukiro", "Niboye", "Gatare", []string{"Byimana"}},
	{"Eastern", "Bugesera", "Nyamata", "Kanazi", []string{"Cyugamo"}},
	{"Eastern", "Kayonza", "Mukarange", "Bwiza", []string{"Kayonza"}},
	{"Eastern", "Ngoma", "Kibungo", "Cyasemakamba", []string{"Kabeza"}},
	{"Northern", "Burera", "Cyanika", "Kabyiniro", []string{"Kabaya"}},
	{"Northern", "Gicumbi", "Byumba", "Gisuna", []string{"Nyamabuye"}},
	{"Northern", "Musanze", "Muhoza", "Cyabararika", []string{"Rukoro"}},
	{"Southern", "Huye", "Ngoma", "Butare", []string{"Bukinanyana"}},
	{"Southern", "Nyamagabe", "Gasaka", "Kigeme", []string{"Gitaba"}},
	{"Southern", "Nyanza", "Busasamana", "Nyanza", []string{"Rwesero"}},
	{"Western", "Karongi", "Bwishyura", "Kiniha", []string{"Gitarama"}},
	{"Western", "Rubavu", "Gisenyi", "Kivumu", []string{"Kabumba"}},
	{"Western", "Rusizi", "Kamembe", "Gatenga", []string{"Kamashangi"}},
}

// DefaultLocations flattens the default cells into one location per village.
func DefaultLocations() []models.Location {
	var locations []models.Location
	for _, c := range defaultCells {
		for _, v := range c.villages {
			locations = append(locations, models.Location{
				Province: c.province,
				District: c.district,
				Sector:   c.sector,
				Cell:     c.cell,
				Village:  v,
			})
		}
	}
	return locations
}
