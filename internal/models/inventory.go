package models

// InventoryAlert is raised by the inventory threshold checker when a
// material/color variant crosses its reorder threshold or hits zero.
type InventoryAlert struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	MaterialName string `json:"materialName"`
	ColorName    string `json:"colorName"`
	CurrentLevel int    `json:"currentLevel"`
	Threshold    int    `json:"threshold"`
}
