package httpapi

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/alexanderramin/rkam/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func actorOf(c *fiber.Ctx) domain.Actor {
	a, _ := c.Locals(actorKey).(domain.Actor)
	return a
}

func bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("malformed request body: %v: %w", err, domain.ErrValidation)
	}
	return nil
}

func respondTransition(c *fiber.Ctx, status int, res *service.TransitionResult) error {
	return c.Status(status).JSON(transitionResponse{Message: res.Message, Proposal: viewProposal(res.Proposal)})
}

func respondPayment(c *fiber.Ctx, status int, res *service.PaymentResult) error {
	return c.Status(status).JSON(transitionResponse{
		Message:  res.Message,
		Proposal: viewProposal(res.Proposal),
		Payment:  viewPayment(res.Payment),
	})
}

func (s *server) listBudgetLines(c *fiber.Ctx) error {
	year := 0
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("year %q is not a number: %w", v, domain.ErrValidation)
		}
		year = n
	}
	lines, err := s.svc.Budget.List(c.UserContext(), year)
	if err != nil {
		return err
	}
	out := make([]budgetLineView, 0, len(lines))
	for _, b := range lines {
		out = append(out, viewBudgetLine(b))
	}
	return c.JSON(out)
}

func (s *server) getBudgetLine(c *fiber.Ctx) error {
	b, err := s.svc.Budget.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(viewBudgetLine(b))
}

func (s *server) listProposals(c *fiber.Ctx) error {
	f := repository.ProposalFilter{
		Status:       domain.ProposalStatus(c.Query("status")),
		OwnerID:      c.Query("owner_id"),
		BudgetLineID: c.Query("budget_line_id"),
	}
	if f.Status != "" && !domain.ValidProposalStatuses[f.Status] {
		return fmt.Errorf("unknown status %q: %w", f.Status, domain.ErrValidation)
	}
	ps, err := s.svc.Proposals.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	out := make([]*proposalView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewProposal(p))
	}
	return c.JSON(out)
}

func (s *server) getProposal(c *fiber.Ctx) error {
	p, err := s.svc.Proposals.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(viewProposal(p))
}

func (s *server) proposalHistory(c *fiber.Ctx) error {
	events, err := s.svc.Proposals.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]auditView, 0, len(events))
	for _, e := range events {
		out = append(out, viewAudit(e))
	}
	return c.JSON(out)
}

func (s *server) listPayments(c *fiber.Ctx) error {
	pays, err := s.svc.Payments.ListByProposal(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]*paymentView, 0, len(pays))
	for _, p := range pays {
		out = append(out, viewPayment(p))
	}
	return c.JSON(out)
}

func (s *server) getPayment(c *fiber.Ctx) error {
	p, err := s.svc.Payments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(viewPayment(p))
}

type createProposalRequest struct {
	BudgetLineID string          `json:"budget_line_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
}

func (s *server) createProposal(c *fiber.Ctx) error {
	var req createProposalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Proposals.Create(c.UserContext(), actorOf(c), service.CreateProposalInput{
		BudgetLineID: req.BudgetLineID,
		Title:        req.Title,
		Description:  req.Description,
		Amount:       req.Amount,
	})
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusCreated, res)
}

type updateProposalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *server) updateProposal(c *fiber.Ctx) error {
	var req updateProposalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Proposals.Update(c.UserContext(), actorOf(c), c.Params("id"),
		service.UpdateProposalInput{Title: req.Title, Description: req.Description})
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusOK, res)
}

func (s *server) deleteProposal(c *fiber.Ctx) error {
	if err := s.svc.Proposals.Delete(c.UserContext(), actorOf(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) submit(c *fiber.Ctx) error {
	res, err := s.svc.Proposals.Submit(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusOK, res)
}

func (s *server) verify(c *fiber.Ctx) error {
	res, err := s.svc.Proposals.Verify(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusOK, res)
}

func (s *server) approve(c *fiber.Ctx) error {
	res, err := s.svc.Proposals.Approve(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusOK, res)
}

func (s *server) finalApprove(c *fiber.Ctx) error {
	res, err := s.svc.Proposals.FinalApprove(c.UserContext(), actorOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusOK, res)
}

type rejectRequest struct {
	Reason                 string `json:"reason"`
	ImprovementSuggestions string `json:"improvement_suggestions"`
}

func (s *server) reject(c *fiber.Ctx) error {
	var req rejectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Proposals.Reject(c.UserContext(), actorOf(c), c.Params("id"), service.RejectInput{
		Reason:      req.Reason,
		Suggestions: req.ImprovementSuggestions,
	})
	if err != nil {
		return err
	}
	return respondTransition(c, fiber.StatusOK, res)
}

type processPaymentRequest struct {
	RecipientName    string `json:"recipient_name"`
	RecipientAccount string `json:"recipient_account"`
	BankName         string `json:"bank_name"`
	PaymentMethod    string `json:"payment_method"`
	PaymentReference string `json:"payment_reference"`
	Notes            string `json:"notes"`
}

func (s *server) processPayment(c *fiber.Ctx) error {
	var req processPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Payments.Process(c.UserContext(), actorOf(c), c.Params("id"), service.ProcessPaymentInput{
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		BankName:         req.BankName,
		Method:           domain.PaymentMethod(req.PaymentMethod),
		Reference:        req.PaymentReference,
		Notes:            req.Notes,
	})
	if err != nil {
		return err
	}
	return respondPayment(c, fiber.StatusCreated, res)
}

type completePaymentRequest struct {
	ProofFile  string `json:"proof_file"`
	ProofURL   string `json:"proof_url"`
	AdminNotes string `json:"admin_notes"`
}

func (s *server) completePayment(c *fiber.Ctx) error {
	var req completePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Payments.Complete(c.UserContext(), actorOf(c), c.Params("id"), service.CompletePaymentInput{
		ProofFile:  req.ProofFile,
		ProofURL:   req.ProofURL,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return err
	}
	return respondPayment(c, fiber.StatusOK, res)
}

type cancelPaymentRequest struct {
	Reason string `json:"reason"`
}

func (s *server) cancelPayment(c *fiber.Ctx) error {
	var req cancelPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Payments.Cancel(c.UserContext(), actorOf(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return respondPayment(c, fiber.StatusOK, res)
}
