package kol

// Built-in reference list used when KOLS_FILE is not set. Curated by
// hand; avatars come from the public profile images of each trader.
var defaultKOLs = []KOL{
	{
		Name:    "Cented",
		Avatar:  "https://pbs.twimg.com/profile_images/cented.jpg",
		XHandle: "Cented7",
		Wallet:  "CyaE1VxvBrahnPWkqm5VsdCvyS2QmNht2UFrKJHga54o",
	},
	{
		Name:    "Kreo",
		Avatar:  "https://pbs.twimg.com/profile_images/kreo.jpg",
		XHandle: "kreo_sol",
		Wallet:  "BCnqsPEtA1TkgednYEebRpkmwFRJDCjMQcKZMMtEdArc",
		SideWallets: []string{
			"8MaVa9kdt3NW4Q5HyNAm1X5LbR8PQRVDc1W8NMVK88D5",
		},
	},
	{
		Name:    "Waddles",
		Avatar:  "https://pbs.twimg.com/profile_images/waddles.jpg",
		XHandle: "waddles_sol",
		Wallet:  "9yYya3F5EJoLnBNKW6z4bZvyQytMXzDcpU5D6yYr4jqL",
	},
	{
		Name:    "Lynk",
		Avatar:  "https://pbs.twimg.com/profile_images/lynk.jpg",
		XHandle: "lynk0x",
		Wallet:  "FSHKvpcHNuVK9a1278eBTHFcNVVrFmFF5sGpmdYrohtF",
		SideWallets: []string{
			"GM7T3m9nonCUKqbLTMSFyjsp4Ww2mAUfrNBXjrRnqzCn",
		},
	},
	{
		Name:    "Gr3g",
		Avatar:  "https://pbs.twimg.com/profile_images/gr3g.jpg",
		XHandle: "gr3gario",
		Wallet:  "DpNVrtA3ERfKzX4F8Pi2CVykdJJjoNxyY5QgoytAwD26",
	},
}
