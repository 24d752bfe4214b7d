package models

// ATM 仓库/喷漆车间跟踪的设备记录（服务端为唯一权威，客户端只持有临时副本）
type ATM struct {
	ID           int64  `json:"id"`
	SerialNumber string `json:"sn"`
	Model        string `json:"model"`
	Pallet       string `json:"pallet"`
	AcceptedAt   string `json:"accepted_at"`
	Status       string `json:"status"`
	Note         string `json:"note"`
}

// User 当前登录的操作员
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Claim 编辑声明：某台设备正在被某个操作员检验
// 存储在 KV 中，键为 atm:lock:<sn>
type Claim struct {
	Serial    string `json:"serial"`
	ClaimedBy User   `json:"claimed_by"`
}

// Request 维修/喷漆工单
type Request struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	Note      string `json:"note"`
}

// InspectionZones 质检区域清单（固定顺序，静态配置）
var InspectionZones = []string{
	"front",
	"left_side",
	"right_side",
	"rear",
	"interior",
}
