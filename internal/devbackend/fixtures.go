package devbackend

import "github.com/jrsteele09/wash24-admin/api"

const fixtureTime = "2026-01-05T09:30:00.000Z"

func fixtureAgents() []api.AgentDetail {
	return []api.AgentDetail{
		{
			ID: "agent-1",
			AgentPayload: api.AgentPayload{
				PersonalInfo: map[string]string{"fullName": "Ravi Kumar", "email": "ravi@wash24.in", "phone": "9876543210", "emergencyContact": "9876500000"},
				AddressInfo:  map[string]string{"address": "12 MG Road", "city": "Pune", "pinCode": "411001"},
				VehicleInfo:  map[string]string{"vehicleNumber": "MH12AB1234", "vehicleType": "BIKE"},
				BankInfo:     map[string]string{"accountNumber": "001122334455", "ifscCode": "HDFC0000001"},
				Documents:    []api.AgentDocument{},
				Status:       "ACTIVE",
			},
		},
		{
			ID: "agent-2",
			AgentPayload: api.AgentPayload{
				PersonalInfo: map[string]string{"fullName": "Sana Shaikh", "email": "sana@wash24.in", "phone": "9123456780"},
				AddressInfo:  map[string]string{"city": "Mumbai"},
				VehicleInfo:  map[string]string{"vehicleType": "SCOOTER"},
				BankInfo:     map[string]string{},
				Documents:    []api.AgentDocument{},
				Status:       "INACTIVE",
			},
		},
	}
}

func fixtureCategories() []api.Category {
	return []api.Category{
		{
			ID: "cat-laundry", Name: "Laundry", Description: "Wash and fold", IsActive: true, ShowOnHome: true, SortOrder: 1,
			CreatedAt: fixtureTime, UpdatedAt: fixtureTime,
			Services: []api.Service{
				{
					ID: "svc-wash-fold", Name: "Wash & Fold", Description: "Washing and folding for everyday clothes",
					BasePrice: 200, IsActive: true, ShowOnHome: true, SortOrder: 1,
					PricingVariations: []api.PricingVariation{
						{ID: "pv-shirt", ItemType: "Shirt", CustomerCategory: "MALE", Price: 50, IsActive: true},
						{ID: "pv-jeans", ItemType: "Jeans", CustomerCategory: "UNISEX", Price: 100, IsActive: true},
					},
				},
			},
		},
		{
			ID: "cat-dry-clean", Name: "Dry Cleaning", Description: "Care for delicate garments", IsActive: true, SortOrder: 2,
			CreatedAt: fixtureTime, UpdatedAt: fixtureTime,
			Services: []api.Service{
				{ID: "svc-dry-clean", Name: "Dry Clean", BasePrice: 400, IsActive: false, SortOrder: 1, PricingVariations: []api.PricingVariation{}},
			},
		},
	}
}

func summarise(a api.AgentDetail) api.DeliveryAgent {
	return api.DeliveryAgent{
		ID:        a.ID,
		FullName:  a.PersonalInfo["fullName"],
		Email:     a.PersonalInfo["email"],
		Phone:     a.PersonalInfo["phone"],
		Status:    a.Status,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}
}
