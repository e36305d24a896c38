package db

import "time"

// SchemaVersion tags the stored node layout. Bumping it wipes the Nodes
// bucket and reseeds it from SeedNodes on the next open, discarding any
// locally added records.
const SchemaVersion = "v2"

// SeedNodes returns the built-in node list used to populate a fresh or
// reseeded store.
func SeedNodes() []WifiNode {
	now := time.Now().UTC()

	return []WifiNode{
		{
			ID:               "1",
			NodeID:           1,
			OwnerAddress:     "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb",
			Location:         "Downtown Phoenix, AZ",
			PricePerHourETH:  0.001,
			PricePerHourUSD:  2.5,
			ReputationScore:  98,
			TotalConnections: 1247,
			IsActive:         true,
			Upvotes:          234,
			Downvotes:        5,
			RegisteredAt:     now,
			LastSyncedAt:     now,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "2",
			NodeID:           2,
			OwnerAddress:     "0x8ba1f109551bD432803012645Ac136ddd64DBA72",
			Location:         "Scottsdale Mall, AZ",
			PricePerHourETH:  0.0008,
			PricePerHourUSD:  2.0,
			ReputationScore:  95,
			TotalConnections: 892,
			IsActive:         true,
			Upvotes:          178,
			Downvotes:        9,
			RegisteredAt:     now,
			LastSyncedAt:     now,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "3",
			NodeID:           3,
			OwnerAddress:     "0xdD2FD4581271e230360230F9337D5c0430Bf44C0",
			Location:         "Tempe Beach Park, AZ",
			PricePerHourETH:  0.0012,
			PricePerHourUSD:  3.0,
			ReputationScore:  92,
			TotalConnections: 654,
			IsActive:         true,
			Upvotes:          145,
			Downvotes:        12,
			RegisteredAt:     now,
			LastSyncedAt:     now,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "4",
			NodeID:           4,
			OwnerAddress:     "0xBcd4042DE499D14e55001CcbB24a551F3b954096",
			Location:         "Mesa Community Center, AZ",
			PricePerHourETH:  0.0009,
			PricePerHourUSD:  2.25,
			ReputationScore:  88,
			TotalConnections: 421,
			IsActive:         true,
			Upvotes:          98,
			Downvotes:        14,
			RegisteredAt:     now,
			LastSyncedAt:     now,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "5",
			NodeID:           5,
			OwnerAddress:     "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
			Location:         "Chandler Fashion Center, AZ",
			PricePerHourETH:  0.0015,
			PricePerHourUSD:  3.75,
			ReputationScore:  85,
			TotalConnections: 312,
			IsActive:         false,
			Upvotes:          67,
			Downvotes:        8,
			RegisteredAt:     now,
			LastSyncedAt:     now,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}
