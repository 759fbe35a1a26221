package seed

import "food-ordering/internal/storefront/domain/models"

type demoStore struct {
	store models.Store
	menu  []models.Item
}

func placeholder(text string) string {
	return "https://via.placeholder.com/300x200?text=" + text
}

var demoStores = []demoStore{
	{
		store: models.Store{
			Slug:              "mie-gacoan-tebet",
			Name:              "Mie Gacoan Tebet",
			Description:       "Mie pedas dan dimsum favorit anak muda.",
			BankName:          "BCA",
			BankAccountNumber: "1234567890",
			BankAccountHolder: "PT Pesta Pora Abadi",
		},
		menu: []models.Item{
			{Name: "Mie Suit", Description: "Mie original dengan rasa gurih asin tanpa cabai. Cocok untuk yang tidak suka pedas.", Price: 9500, ImageURL: placeholder("Mie+Suit")},
			{Name: "Mie Hompimpa Level 1", Description: "Mie dengan rasa gurih pedas asin level 1. Pedasnya pas!", Price: 9500, ImageURL: placeholder("Mie+Hompimpa+Lv1")},
			{Name: "Udang Keju", Description: "Bola udang goreng dengan isian keju lumer. Wajib coba!", Price: 8600, ImageURL: placeholder("Udang+Keju")},
			{Name: "Es Gobak Sodor", Description: "Es buah segar dengan potongan buah asli dan sirup manis.", Price: 8600, ImageURL: placeholder("Es+Gobak+Sodor")},
		},
	},
	{
		store: models.Store{
			Slug:              "warteg-bahari",
			Name:              "Warteg Bahari",
			Description:       "Masakan rumahan khas warteg.",
			BankName:          "Mandiri",
			BankAccountNumber: "0987654321",
			BankAccountHolder: "Warteg Bahari",
		},
		menu: []models.Item{
			{Name: "Nasi Rames", Description: "Nasi dengan aneka lauk pauk pilihan.", Price: 15000, ImageURL: placeholder("Nasi+Rames")},
			{Name: "Telur Dadar", Description: "Telur dadar goreng khas warteg.", Price: 5000, ImageURL: placeholder("Telur+Dadar")},
			{Name: "Ayam Goreng", Description: "Ayam goreng bumbu kuning.", Price: 12000, ImageURL: placeholder("Ayam+Goreng")},
			{Name: "Es Teh Manis", Description: "Minuman sejuta umat.", Price: 3000, ImageURL: placeholder("Es+Teh")},
		},
	},
}
