package shared

import "github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"

// Banks is the fixed registry of tracked banking apps. IDs are assigned by
// the database on upsert; only name and Play Store app id are configured.
var Banks = []domain.Bank{
	{Name: "CBE", AppID: "com.combanketh.mobilebanking"},
	{Name: "BOA", AppID: "com.boa.boaMobileBanking"},
	{Name: "Dashen", AppID: "com.dashen.dashensuperapp"},
}
