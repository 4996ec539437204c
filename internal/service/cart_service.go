package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miniteen-shop/internal/constants"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartLine 购物车行（关联当前商品信息）
type CartLine struct {
	Item     models.CartItem
	Product  models.Product
	Subtotal models.Money
}

// CartSummary 购物车汇总，金额按商品当前价格计算
type CartSummary struct {
	Cart        *models.Cart
	Lines       []CartLine
	TotalItems  int
	TotalAmount models.Money
}

// StockIssue 库存校验问题
type StockIssue struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Reason      string `json:"reason"` // missing / out_of_stock / insufficient
	Requested   int    `json:"requested"`
	Remaining   int    `json:"remaining"`
}

// StockValidation 库存校验结果
type StockValidation struct {
	Valid  bool         `json:"valid"`
	Issues []StockIssue `json:"issues"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreate 获取用户购物车，不存在时创建空购物车
func (s *CartService) GetOrCreate(userID string) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return loadOrCreateCart(s.cartRepo, userID)
}

// Add 加入购物车，已有同商品的行时合并数量
func (s *CartService) Add(userID, productID string, quantity int) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if quantity <= 0 {
		return nil, ErrCartQuantityInvalid
	}

	var result *models.Cart
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		product, err := s.productRepo.WithTx(tx).GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if !product.InStock {
			return newOutOfStockError(product.ID, product.Name)
		}
		if quantity > product.StockCount {
			return newInsufficientStockError(product.ID, product.Name, quantity, product.StockCount)
		}

		cart, err := lockCart(cartRepo, userID)
		if err != nil {
			return err
		}
		now := time.Now()
		if line := cart.FindItem(productID); line != nil {
			combined := line.Quantity + quantity
			if combined > product.StockCount {
				return newInsufficientStockError(product.ID, product.Name, combined, product.StockCount)
			}
			if err := cartRepo.UpdateItemQuantity(line.ID, combined); err != nil {
				return err
			}
			line.Quantity = combined
		} else {
			item := models.CartItem{
				ID:        uuid.NewString(),
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				SortOrder: nextCartSortOrder(cart),
				AddedAt:   now,
			}
			if err := cartRepo.CreateItem(&item); err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}
		if err := cartRepo.Touch(cart.ID, now); err != nil {
			return err
		}
		cart.UpdatedAt = now
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debugw("cart_item_added", "user_id", userID, "product_id", productID, "quantity", quantity)
	return result, nil
}

// SetQuantity 设置购物车行数量，数量 <= 0 等同于移除
func (s *CartService) SetQuantity(userID, productID string, quantity int) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var result *models.Cart
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := lockCart(cartRepo, userID)
		if err != nil {
			return err
		}
		line := cart.FindItem(productID)
		if line == nil {
			return ErrCartItemNotFound
		}

		if quantity <= 0 {
			if _, err := cartRepo.DeleteItem(cart.ID, productID); err != nil {
				return err
			}
			cart.Items = withoutItem(cart.Items, productID)
		} else {
			product, err := s.productRepo.WithTx(tx).GetByID(productID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if quantity > product.StockCount {
				return newInsufficientStockError(product.ID, product.Name, quantity, product.StockCount)
			}
			if err := cartRepo.UpdateItemQuantity(line.ID, quantity); err != nil {
				return err
			}
			line.Quantity = quantity
		}

		now := time.Now()
		if err := cartRepo.Touch(cart.ID, now); err != nil {
			return err
		}
		cart.UpdatedAt = now
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove 移除购物车行
func (s *CartService) Remove(userID, productID string) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var result *models.Cart
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := lockCart(cartRepo, userID)
		if err != nil {
			return err
		}
		removed, err := cartRepo.DeleteItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrCartItemNotFound
		}
		now := time.Now()
		if err := cartRepo.Touch(cart.ID, now); err != nil {
			return err
		}
		cart.Items = withoutItem(cart.Items, productID)
		cart.UpdatedAt = now
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear 清空购物车，保留购物车本身
func (s *CartService) Clear(userID string) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var result *models.Cart
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := lockCart(cartRepo, userID)
		if err != nil {
			return err
		}
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		now := time.Now()
		if err := cartRepo.Touch(cart.ID, now); err != nil {
			return err
		}
		cart.Items = []models.CartItem{}
		cart.UpdatedAt = now
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summarize 汇总购物车；任一商品已不存在时整体失败
func (s *CartService) Summarize(cart *models.Cart) (*CartSummary, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	products, err := s.productsFor(cart)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{
		Cart:  cart,
		Lines: make([]CartLine, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		subtotal := product.Price.Times(item.Quantity)
		summary.Lines = append(summary.Lines, CartLine{
			Item:     item,
			Product:  product,
			Subtotal: subtotal,
		})
		summary.TotalItems += item.Quantity
		summary.TotalAmount = summary.TotalAmount.Plus(subtotal)
	}
	return summary, nil
}

// ValidateStock 校验购物车库存，问题以列表形式返回而不是报错
func (s *CartService) ValidateStock(cart *models.Cart) (*StockValidation, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	products, err := s.productsFor(cart)
	if err != nil {
		return nil, err
	}

	result := &StockValidation{Valid: true, Issues: []StockIssue{}}
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		switch {
		case !ok:
			result.Issues = append(result.Issues, StockIssue{
				ProductID: item.ProductID,
				Reason:    constants.StockIssueMissing,
				Requested: item.Quantity,
			})
		case !product.InStock:
			result.Issues = append(result.Issues, StockIssue{
				ProductID:   product.ID,
				ProductName: product.Name,
				Reason:      constants.StockIssueOutOfStock,
				Requested:   item.Quantity,
			})
		case item.Quantity > product.StockCount:
			result.Issues = append(result.Issues, StockIssue{
				ProductID:   product.ID,
				ProductName: product.Name,
				Reason:      constants.StockIssueInsufficient,
				Requested:   item.Quantity,
				Remaining:   product.StockCount,
			})
		}
	}
	result.Valid = len(result.Issues) == 0
	return result, nil
}

// CartQuantity 返回用户购物车中某商品的数量，购物车不存在时为 0
func (s *CartService) CartQuantity(userID, productID string) (int, error) {
	cart, err := s.cartRepo.GetByUser(strings.TrimSpace(userID))
	if err != nil || cart == nil {
		return 0, err
	}
	if line := cart.FindItem(productID); line != nil {
		return line.Quantity, nil
	}
	return 0, nil
}

func (s *CartService) productsFor(cart *models.Cart) (map[string]models.Product, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID, nil
}

func loadOrCreateCart(repo repository.CartRepository, userID string) (*models.Cart, error) {
	cart, err := repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	now := time.Now()
	if err := repo.CreateIfAbsent(&models.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}
	// 并发首次访问时以先写入者为准
	cart, err = repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("cart for user %s not persisted", userID)
	}
	return cart, nil
}

// lockCart 确保购物车存在并加行锁读取，供事务内的写操作使用
func lockCart(repo repository.CartRepository, userID string) (*models.Cart, error) {
	now := time.Now()
	if err := repo.CreateIfAbsent(&models.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}
	cart, err := repo.GetByUserForUpdate(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("cart for user %s not persisted", userID)
	}
	return cart, nil
}

func nextCartSortOrder(cart *models.Cart) int64 {
	var maxOrder int64
	for _, item := range cart.Items {
		if item.SortOrder > maxOrder {
			maxOrder = item.SortOrder
		}
	}
	return maxOrder + 1
}

func withoutItem(items []models.CartItem, productID string) []models.CartItem {
	kept := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	return kept
}
