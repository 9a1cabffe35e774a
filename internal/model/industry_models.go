package model

import (
	"time"

	"github.com/google/uuid"
)

// Industry tables double as wire shapes: the generic industry endpoints bind
// request bodies straight into these structs and list responses are marshaled
// from them, so every column carries a json tag. Columns follow the snake_case
// of the json name (yoyChange -> yoy_change), which the generic repository
// relies on when it builds update maps from submitted payloads.

type ChinaPassengerInventory struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_china_passenger_inventory_period" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_china_passenger_inventory_period" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ChinaPassengerInventory) TableName() string {
	return "china_passenger_inventory"
}

type ChinaBatteryInstallation struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year         int        `gorm:"not null;uniqueIndex:idx_china_battery_installation_period" json:"year"`
	Month        int        `gorm:"not null;uniqueIndex:idx_china_battery_installation_period" json:"month"`
	Installation float64    `gorm:"not null" json:"installation"`
	Unit         string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange    *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange    *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL    string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle  string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt  *time.Time `json:"publishedAt"`
	ImageURL     string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ChinaBatteryInstallation) TableName() string {
	return "china_battery_installation"
}

type CaamNevSales struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_caam_nev_sales_period" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_caam_nev_sales_period" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CaamNevSales) TableName() string {
	return "caam_nev_sales"
}

type ChinaDealerInventoryFactor struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_china_dealer_inventory_factor_period" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_china_dealer_inventory_factor_period" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ChinaDealerInventoryFactor) TableName() string {
	return "china_dealer_inventory_factor"
}

type CpcaNevRetail struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_cpca_nev_retail_period" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_cpca_nev_retail_period" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CpcaNevRetail) TableName() string {
	return "cpca_nev_retail"
}

type CpcaNevProduction struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_cpca_nev_production_period" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_cpca_nev_production_period" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CpcaNevProduction) TableName() string {
	return "cpca_nev_production"
}

type ChinaViaIndex struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Year        int        `gorm:"not null;uniqueIndex:idx_china_via_index_period" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_china_via_index_period" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ChinaViaIndex) TableName() string {
	return "china_via_index"
}

type BatteryMakerMonthly struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Maker        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_battery_maker_monthly_key" json:"maker"`
	Year         int        `gorm:"not null;uniqueIndex:idx_battery_maker_monthly_key" json:"year"`
	Month        int        `gorm:"not null;uniqueIndex:idx_battery_maker_monthly_key" json:"month"`
	Installation float64    `gorm:"not null" json:"installation"`
	Unit         string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange    *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange    *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL    string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle  string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt  *time.Time `json:"publishedAt"`
	ImageURL     string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (BatteryMakerMonthly) TableName() string {
	return "battery_maker_monthly"
}

type PlantExport struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Plant       string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_plant_exports_key" json:"plant"`
	Brand       string     `gorm:"type:varchar(100);not null" json:"brand"`
	Year        int        `gorm:"not null;uniqueIndex:idx_plant_exports_key" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_plant_exports_key" json:"month"`
	Value       float64    `gorm:"not null" json:"value"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (PlantExport) TableName() string {
	return "plant_exports"
}

type NevSalesSummary struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DataSource  string     `gorm:"type:varchar(20);not null" json:"dataSource"`
	Year        int        `gorm:"not null;uniqueIndex:idx_nev_sales_summary_key" json:"year"`
	StartDate   string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_nev_sales_summary_key" json:"startDate"`
	EndDate     string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_nev_sales_summary_key" json:"endDate"`
	RetailSales float64    `gorm:"not null" json:"retailSales"`
	Unit        string     `gorm:"type:varchar(20)" json:"unit"`
	RetailYoy   *float64   `json:"retailYoy"`
	RetailMom   *float64   `json:"retailMom"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (NevSalesSummary) TableName() string {
	return "nev_sales_summary"
}

type AutomakerRanking struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DataSource  string     `gorm:"type:varchar(20)" json:"dataSource"`
	Year        int        `gorm:"not null;uniqueIndex:idx_automaker_rankings_key" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_automaker_rankings_key" json:"month"`
	Ranking     int        `gorm:"not null;uniqueIndex:idx_automaker_rankings_key" json:"ranking"`
	Automaker   string     `gorm:"type:varchar(100);not null" json:"automaker"`
	Value       float64    `gorm:"not null" json:"value"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MoMChange   *float64   `gorm:"column:mom_change" json:"momChange"`
	MarketShare *float64   `json:"marketShare"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (AutomakerRanking) TableName() string {
	return "automaker_rankings"
}

type BatteryMakerRanking struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DataSource  string     `gorm:"type:varchar(20)" json:"dataSource"`
	Scope       string     `gorm:"type:varchar(20);not null;default:'CHINA';uniqueIndex:idx_battery_maker_rankings_key" json:"scope"`
	Year        int        `gorm:"not null;uniqueIndex:idx_battery_maker_rankings_key" json:"year"`
	Month       int        `gorm:"not null;uniqueIndex:idx_battery_maker_rankings_key" json:"month"`
	Ranking     int        `gorm:"not null;uniqueIndex:idx_battery_maker_rankings_key" json:"ranking"`
	Maker       string     `gorm:"type:varchar(100);not null" json:"maker"`
	Value       float64    `gorm:"not null" json:"value"`
	YoYChange   *float64   `gorm:"column:yoy_change" json:"yoyChange"`
	MarketShare *float64   `json:"marketShare"`
	SourceURL   string     `gorm:"type:text" json:"sourceUrl"`
	SourceTitle string     `gorm:"type:text" json:"sourceTitle"`
	PublishedAt *time.Time `json:"publishedAt"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (BatteryMakerRanking) TableName() string {
	return "battery_maker_rankings"
}

type NioPowerSnapshot struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AsOfTime               time.Time `gorm:"not null;index" json:"asOfTime"`
	TotalStations          int       `json:"totalStations"`
	SwapStations           int       `json:"swapStations"`
	HighwaySwapStations    int       `json:"highwaySwapStations"`
	CumulativeSwaps        int64     `json:"cumulativeSwaps"`
	ChargingStations       int       `json:"chargingStations"`
	ChargingPiles          int       `json:"chargingPiles"`
	CumulativeCharges      int64     `json:"cumulativeCharges"`
	ThirdPartyPiles        int       `json:"thirdPartyPiles"`
	ThirdPartyUsagePercent float64   `json:"thirdPartyUsagePercent"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (NioPowerSnapshot) TableName() string {
	return "nio_power_snapshots"
}
