package schema

// BrandSettingTable represents the 'brand.setting' table
type BrandSettingTable struct {
	Table     string
	ID        string
	BrandID   string
	Key       string
	Value     string
	UpdatedBy string
	CreatedAt string
	UpdatedAt string
}

// BrandSetting is the schema definition for brand.setting
var BrandSetting = BrandSettingTable{
	Table:     "brand.setting",
	ID:        "id",
	BrandID:   "brandid",
	Key:       "key",
	Value:     "value",
	UpdatedBy: "updatedby",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t BrandSettingTable) Columns() []string {
	return []string{
		t.ID, t.BrandID, t.Key, t.Value, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
