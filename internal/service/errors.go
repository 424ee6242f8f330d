package service

import "errors"

// 通用错误
var (
	ErrNotFound = errors.New("record not found")
)

// 订单相关错误
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status invalid")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
)

// 佣金计算相关错误（校验类错误属于配置缺陷，必须上抛，不允许吞掉）
var (
	ErrCommissionDistModeInvalid = errors.New("commission dist mode invalid")
	ErrCommissionRateInvalid     = errors.New("commission rate invalid")
	ErrDistributionConfigInvalid = errors.New("distribution config invalid")
)

// 钱包相关错误
var (
	ErrWalletAccountCreateFailed     = errors.New("wallet account create failed")
	ErrWalletAccountUpdateFailed     = errors.New("wallet account update failed")
	ErrWalletTransactionCreateFailed = errors.New("wallet transaction create failed")
	ErrWalletFrozenInsufficient      = errors.New("wallet frozen insufficient")
	ErrWalletInvalidAmount           = errors.New("wallet invalid amount")
)
