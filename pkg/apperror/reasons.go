package apperror

// Reason codes returned alongside permission, validation and not-found errors.
const (
	ReasonNotGameMaster = "NotGameMaster"
	ReasonNotOwner      = "NotOwner"
	ReasonBanned        = "Banned"

	ReasonInvalidSkillForCampaign = "InvalidSkillForCampaign"
	ReasonInvalidTraitForCampaign = "InvalidTraitForCampaign"
	ReasonInsufficientFatePoints  = "InsufficientFatePoints"
	ReasonAlreadyFulfilled        = "AlreadyFulfilled"
	ReasonSlotLimitReached        = "SlotLimitReached"
	ReasonWrongCampaignType       = "WrongCampaignType"
	ReasonPrerequisiteMissing     = "PrerequisiteMissing"
	ReasonReleaseLocked           = "ReleaseLocked"
	ReasonPowerLocked             = "PowerLocked"
	ReasonMissingApprovalField    = "MissingApprovalField"
	ReasonInvalidStatLetter       = "InvalidStatLetter"
	ReasonAlreadyReviewed         = "AlreadyReviewed"
	ReasonTraitCount              = "TraitCount"
	ReasonInvalidValue            = "InvalidValue"
	ReasonItemCrossCampaign       = "ItemCrossCampaign"
	ReasonInvalidQuantity         = "InvalidQuantity"
	ReasonNotParticipant          = "NotParticipant"
	ReasonOfferOpen               = "OfferOpen"
	ReasonSpellNotOffered         = "SpellNotOffered"

	ReasonCampaignNotFound     = "CampaignNotFound"
	ReasonCharacterNotFound    = "CharacterNotFound"
	ReasonRequestNotFound      = "RequestNotFound"
	ReasonRollNotFound         = "RollNotFound"
	ReasonIdeaNotFound         = "IdeaNotFound"
	ReasonItemNotFound         = "ItemNotFound"
	ReasonNotificationNotFound = "NotificationNotFound"
	ReasonUserNotFound         = "UserNotFound"
	ReasonSkillNotFound        = "SkillNotFound"
	ReasonNoteNotFound         = "NoteNotFound"
	ReasonOfferNotFound        = "OfferNotFound"
	ReasonSpellNotFound        = "SpellNotFound"
)
