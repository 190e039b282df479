package repository

import (
	leadRepo "chalethaven/database/repository/contact"
	listingRepo "chalethaven/database/repository/listing"
	userRepo "chalethaven/database/repository/user"
)

// Re-export the ListingRepository interface and constructor.
type ListingRepository = listingRepo.ListingRepository

type ListingFilter = listingRepo.ListingFilter

var NewMongoListingRepo = listingRepo.NewMongoListingRepo

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepository = userRepo.NewMongoUserRepo

// Re-export the LeadRepository interface and constructor.
type LeadRepository = leadRepo.LeadRepository

var NewMongoLeadRepo = leadRepo.NewMongoLeadRepo
