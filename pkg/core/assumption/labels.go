package assumption

// SheetName is the sheet the drivers are read from.
const SheetName = "Assumptions"

// Row labels as they appear in the financial model.
const (
	LabelPrice = "Price per bowl"

	LabelAcaiCost      = "Açaí cost per bowl"
	LabelAcaiCostAlias = "Acai cost per bowl"
	LabelFruitsCost    = "Fruits cost per bowl"
	LabelGranolaCost   = "Granola cost per bowl"
	LabelYogurtCost    = "Yogurt cost per bowl"
	LabelPackagingCost = "Packaging/others cost per bowl"

	LabelRent      = "Fixed: Rent/month"
	LabelSalaries  = "Fixed: Salaries/month"
	LabelUtilities = "Fixed: Utilities/month"
	LabelMarketing = "Fixed: Marketing/month"

	LabelWorkingDays   = "Working days per month"
	LabelStartingUnits = "Starting units per day (Month 1)"
	LabelGrowthRate    = "Monthly growth rate"
)
