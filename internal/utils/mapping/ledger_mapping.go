package mapping

import (
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/models"
)

func ToModelRecharge(d domain.Recharge) models.Recharge {
	return models.Recharge{
		RechargeID:  d.RechargeID,
		UserID:      d.UserID,
		Amount:      d.Amount,
		Provider:    d.Provider,
		ExternalRef: d.ExternalRef,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainRecharge(m models.Recharge) domain.Recharge {
	return domain.Recharge{
		RechargeID:  m.RechargeID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Provider:    m.Provider,
		ExternalRef: m.ExternalRef,
		CreatedAt:   m.CreatedAt,
	}
}

func ToModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		TransferID:  d.TransferID,
		SenderID:    d.SenderID,
		RecipientID: d.RecipientID,
		Amount:      d.Amount,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainTransfer(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		TransferID:  m.TransferID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainTransferWithParty converts a joined transfer row, keeping the
// other party's identity.
func ToDomainTransferWithParty(m models.TransferWithParty) domain.TransferWithParty {
	return domain.TransferWithParty{
		Transfer: ToDomainTransfer(m.Transfer),
		Party: domain.Counterparty{
			FirstName:   m.PartyFirstName,
			LastName:    m.PartyLastName,
			PhoneNumber: m.PartyPhone,
		},
	}
}
