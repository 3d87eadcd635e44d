package service

import (
	"fmt"
	"math"

	orderModel "healthcare_booking/internal/domain/order/model"
	orderService "healthcare_booking/internal/domain/order/service"
	"healthcare_booking/internal/domain/payment/strategy"
	userModel "healthcare_booking/internal/domain/user/model"
	userRepo "healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/internal/pkg/mailer"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
)

// CheckoutResult 发起支付结果
type CheckoutResult struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Channel  string  `json:"channel"`
	PayParam string  `json:"payParam"`
}

// PaymentService 支付服务接口
type PaymentService interface {
	CreateCheckout(orderID, requesterID, channel string) (*CheckoutResult, error)
	HandleNotify(channel string, params interface{}) error
	RegisterStrategy(channel string, strategy strategy.PaymentStrategy)
}

type paymentService struct {
	orders     orderService.OrderService
	users      userRepo.UserRepository
	mailer     *mailer.Mailer
	strategies map[string]strategy.PaymentStrategy
}

func NewPaymentService(orders orderService.OrderService, users userRepo.UserRepository, m *mailer.Mailer) PaymentService {
	return &paymentService{
		orders:     orders,
		users:      users,
		mailer:     m,
		strategies: make(map[string]strategy.PaymentStrategy),
	}
}

// RegisterStrategy 注册支付策略
func (s *paymentService) RegisterStrategy(channel string, strategy strategy.PaymentStrategy) {
	s.strategies[channel] = strategy
}

// CreateCheckout 对待支付订单发起支付，金额为订单明细合计
func (s *paymentService) CreateCheckout(orderID, requesterID, channel string) (*CheckoutResult, error) {
	strat, ok := s.strategies[channel]
	if !ok {
		return nil, apperr.Validation("unsupported payment channel: " + channel)
	}

	order, err := s.orders.GetOrder(orderID, requesterID, userModel.RoleUser)
	if err != nil {
		return nil, err
	}
	if order.Status != orderModel.StatusPending {
		return nil, apperr.Conflict("order is not awaiting payment")
	}

	amount := orderTotal(order)
	subject := fmt.Sprintf("Healthcare services order %s", order.OrderID)

	payParam, err := strat.Pay(order.OrderID, amount, subject)
	if err != nil {
		return nil, apperr.Internal("failed to create payment", err)
	}

	return &CheckoutResult{
		OrderID:  order.OrderID,
		Amount:   amount,
		Channel:  channel,
		PayParam: payParam,
	}, nil
}

// HandleNotify 处理支付渠道回调：验签、核对金额、迁移订单状态、发送回执邮件
// 重复回调落在 pending→paid 守卫上，已支付订单的回调视为成功处理
func (s *paymentService) HandleNotify(channel string, params interface{}) error {
	strat, ok := s.strategies[channel]
	if !ok {
		return apperr.Validation("unsupported payment channel: " + channel)
	}

	orderID, amount, success, err := strat.Notify(params)
	if err != nil {
		return apperr.Validation("invalid payment notification")
	}
	if !success {
		logger.Log.Warn("Payment notification reports failure",
			zap.String("order_id", orderID),
			zap.String("channel", channel))
		return nil
	}

	order, err := s.orders.GetOrder(orderID, "", userModel.RoleManager)
	if err != nil {
		return err
	}

	// 金额核对，允许分级别的浮点误差
	if math.Abs(orderTotal(order)-amount) > 0.01 {
		logger.Log.Error("Payment amount mismatch",
			zap.String("order_id", orderID),
			zap.Float64("expected", orderTotal(order)),
			zap.Float64("notified", amount))
		return apperr.Validation("payment amount mismatch")
	}

	if _, err := s.orders.UpdateStatus(orderID, orderModel.StatusPaid); err != nil {
		// 回调重放：订单已是 paid，幂等处理
		if apperr.IsKind(err, apperr.KindConflict) && order.Status == orderModel.StatusPaid {
			return nil
		}
		return err
	}

	s.sendReceipt(order, amount)
	return nil
}

func orderTotal(order *orderModel.Order) float64 {
	var total float64
	for _, detail := range order.Details {
		total += detail.Price
	}
	return total
}

// sendReceipt 支付成功后给用户发送回执邮件，fire-and-forget
func (s *paymentService) sendReceipt(order *orderModel.Order, amount float64) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.GetByID(order.UserID)
	if err != nil {
		logger.Log.Warn("Failed to load user for payment receipt",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return
	}
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>We received your payment of <b>%.2f</b> for order <b>%s</b>.</p>",
		user.FullName, amount, order.OrderID,
	)
	s.mailer.SendAsync(user.Email, "Payment received", body)
}
