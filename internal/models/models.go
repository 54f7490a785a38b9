package models

import "strings"

// Switch is one orderable hardware variant. Modular chassis appear once per
// valid network module, sharing Model and differing in NetworkModule.
type Switch struct {
	ID            string `gorm:"column:id;primaryKey"`
	Platform      string `gorm:"column:platform"`
	Model         string `gorm:"column:model"`
	Modular       bool   `gorm:"column:modular"`
	Stackable     bool   `gorm:"column:stackable"`
	NetworkModule string `gorm:"column:network_module"`
	Tier          string `gorm:"column:tier"`

	DlGe        int `gorm:"column:dl_ge"`
	DlGePoe     int `gorm:"column:dl_ge_poe"`
	DlGePoep    int `gorm:"column:dl_ge_poep"`
	DlGeUpoep   int `gorm:"column:dl_ge_upoep"`
	DlGeSfp     int `gorm:"column:dl_ge_sfp"`
	Dl2geUpoe   int `gorm:"column:dl_2ge_upoe"`
	DlMgigPoep  int `gorm:"column:dl_mgig_poep"`
	DlMgigUpoe  int `gorm:"column:dl_mgig_upoe"`
	Dl10ge      int `gorm:"column:dl_10ge"`
	Dl10geSfpp  int `gorm:"column:dl_10ge_sfpp"`
	Dl25geSfp28 int `gorm:"column:dl_25ge_sfp28"`
	Dl40geQsfpp int `gorm:"column:dl_40ge_qsfpp"`
	Dl100geQsfp int `gorm:"column:dl_100ge_qsfp28"`
	UlGeSfp     int `gorm:"column:ul_ge_sfp"`
	UlMgig      int `gorm:"column:ul_mgig"`
	Ul10geSfpp  int `gorm:"column:ul_10ge_sfpp"`
	Ul25geSfp28 int `gorm:"column:ul_25ge_sfp28"`
	Ul40geQsfpp int `gorm:"column:ul_40ge_qsfpp"`
	Ul100geQsfp int `gorm:"column:ul_100ge_qsfp28"`

	PoePower          int    `gorm:"column:poe_power"`
	SwitchingCapacity int    `gorm:"column:switching_capacity"`
	MacEntry          int    `gorm:"column:mac_entry"`
	Vlan              int    `gorm:"column:vlan"`
	Note              string `gorm:"column:note"`
}

func (Switch) TableName() string { return "switch" }

// Mapping links one Catalyst id to one Meraki id. Both sides may repeat.
type Mapping struct {
	ID       uint   `gorm:"primaryKey"`
	Catalyst string `gorm:"column:catalyst;index"`
	Meraki   string `gorm:"column:meraki;index"`
}

func (Mapping) TableName() string { return "mapping" }

const (
	PrivilegeEditor = "editor"
	PrivilegeAdmin  = "admin"
)

// User is a person allowed to change the catalog. Absence means read only.
type User struct {
	ID        string `gorm:"column:id;primaryKey"`
	Privilege string `gorm:"column:privilege"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Privilege, PrivilegeAdmin)
}

func (u User) CanEdit() bool {
	return strings.EqualFold(u.Privilege, PrivilegeEditor) || u.IsAdmin()
}

// IsMerakiID reports whether a catalog key belongs to the Meraki family.
// Meraki SKUs always start with an M.
func IsMerakiID(id string) bool {
	return id != "" && (id[0] == 'm' || id[0] == 'M')
}
