package constants

import "regexp"

// CommodityGroup is one entry of the fixed spend-category taxonomy.
// IDs are exactly three decimal digits ("001".."050").
type CommodityGroup struct {
	ID       string
	Category string
	Name     string
}

var groupIDPattern = regexp.MustCompile(`^\d{3}$`)

// IsGroupIDShape reports whether s has the three-digit id shape.
// Shape only; membership in the seeded table is a separate check.
func IsGroupIDShape(s string) bool {
	return groupIDPattern.MatchString(s)
}

// CommodityGroups is the seeded closed set of commodity groups.
var CommodityGroups = []CommodityGroup{
	{"001", "General Services", "Accommodation Rentals"},
	{"002", "General Services", "Membership Fees"},
	{"003", "General Services", "Workplace Safety"},
	{"004", "General Services", "Consulting"},
	{"005", "General Services", "Financial Services"},
	{"006", "General Services", "Fleet Management"},
	{"007", "General Services", "Recruitment Services"},
	{"008", "General Services", "Professional Development"},
	{"009", "General Services", "Miscellaneous Services"},
	{"010", "General Services", "Insurance"},
	{"011", "Facility Management", "Electrical Engineering"},
	{"012", "Facility Management", "Facility Management Services"},
	{"013", "Facility Management", "Security"},
	{"014", "Facility Management", "Renovations"},
	{"015", "Facility Management", "Office Equipment"},
	{"016", "Facility Management", "Energy Management"},
	{"017", "Facility Management", "Maintenance"},
	{"018", "Facility Management", "Cafeteria and Kitchenettes"},
	{"019", "Facility Management", "Cleaning"},
	{"020", "Publishing Production", "Audio and Visual Production"},
	{"021", "Publishing Production", "Books/Videos/CDs"},
	{"022", "Publishing Production", "Printing Costs"},
	{"023", "Publishing Production", "Software Development for Publishing"},
	{"024", "Publishing Production", "Material Costs"},
	{"025", "Publishing Production", "Shipping for Production"},
	{"026", "Publishing Production", "Digital Product Development"},
	{"027", "Publishing Production", "Pre-production"},
	{"028", "Publishing Production", "Post-production Costs"},
	{"029", "Information Technology", "Hardware"},
	{"030", "Information Technology", "IT Services"},
	{"031", "Information Technology", "Software"},
	{"032", "Logistics", "Courier, Express, and Postal Services"},
	{"033", "Logistics", "Warehousing and Material Handling"},
	{"034", "Logistics", "Transportation Logistics"},
	{"035", "Logistics", "Delivery Services"},
	{"036", "Marketing & Advertising", "Advertising"},
	{"037", "Marketing & Advertising", "Outdoor Advertising"},
	{"038", "Marketing & Advertising", "Marketing Agencies"},
	{"039", "Marketing & Advertising", "Direct Mail"},
	{"040", "Marketing & Advertising", "Customer Communication"},
	{"041", "Marketing & Advertising", "Online Marketing"},
	{"042", "Marketing & Advertising", "Events"},
	{"043", "Marketing & Advertising", "Promotional Materials"},
	{"044", "Production", "Warehouse and Operational Equipment"},
	{"045", "Production", "Production Machinery"},
	{"046", "Production", "Spare Parts"},
	{"047", "Production", "Internal Transportation"},
	{"048", "Production", "Production Materials"},
	{"049", "Production", "Consumables"},
	{"050", "Production", "Maintenance and Repairs"},
}

// FindGroup looks an id up in the seeded table.
func FindGroup(id string) (CommodityGroup, bool) {
	for _, g := range CommodityGroups {
		if g.ID == id {
			return g, true
		}
	}
	return CommodityGroup{}, false
}
