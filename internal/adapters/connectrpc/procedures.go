package connectrpc

// Method names of the remote store service.
const (
	MethodAssignCallerUserRole             = "AssignCallerUserRole"
	MethodCreateProfile                    = "CreateProfile"
	MethodCreatePromotedListing            = "CreatePromotedListing"
	MethodCreateTrip                       = "CreateTrip"
	MethodDeletePromotedListing            = "DeletePromotedListing"
	MethodFilterPromotedListingsByCategory = "FilterPromotedListingsByCategory"
	MethodGetAllListingsSortedByName       = "GetAllListingsSortedByName"
	MethodGetAllPromotedListings           = "GetAllPromotedListings"
	MethodGetAllTripPlans                  = "GetAllTripPlans"
	MethodGetAllUserProfiles               = "GetAllUserProfiles"
	MethodGetCallerPromotedListings        = "GetCallerPromotedListings"
	MethodGetCallerTripPlans               = "GetCallerTripPlans"
	MethodGetCallerUserProfile             = "GetCallerUserProfile"
	MethodGetCallerUserRole                = "GetCallerUserRole"
	MethodGetUserProfile                   = "GetUserProfile"
	MethodIsCallerAdmin                    = "IsCallerAdmin"
	MethodSaveCallerUserProfile            = "SaveCallerUserProfile"
	MethodUpdatePromotedListing            = "UpdatePromotedListing"
)
