package controller

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"schoolhub_backend/internals/dualwrite"
	adminDTO "schoolhub_backend/internals/features/admins/dto"
	adminModel "schoolhub_backend/internals/features/admins/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/resolver"
)

type AdminController struct {
	Mongo   *mongo.Database
	DB      *gorm.DB
	Resolve *resolver.Resolver
}

func NewAdminController(mdb *mongo.Database, db *gorm.DB) *AdminController {
	return &AdminController{Mongo: mdb, DB: db, Resolve: resolver.New(db)}
}

func (ctl *AdminController) col() *mongo.Collection {
	return ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName())
}

/* =========================================================
   REGISTER
   POST /AdminReg
   ========================================================= */
func (ctl *AdminController) Register(c *fiber.Ctx) error {
	var req adminDTO.RegisterAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	log.Printf("Registration request received: name=%s email=%s school=%s password=[REDACTED]",
		req.Name, req.Email, req.SchoolName)

	// field-by-field messages are part of the API contract
	if req.Name == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Name is required")
	}
	if req.Email == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Email is required")
	}
	if req.Password == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Password is required")
	}
	if req.SchoolName == "" {
		return helper.Error(c, fiber.StatusBadRequest, "School name is required")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.Context()

	// uniqueness is a read-then-write check; two concurrent registrations
	// can still both pass it
	if err := ctl.col().FindOne(ctx, bson.M{"email": req.Email}).Err(); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ServerError(c, "Internal Server Error", err, nil)
	}
	if err := ctl.col().FindOne(ctx, bson.M{"schoolName": req.SchoolName}).Err(); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Sorry this school name already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ServerError(c, "Internal Server Error", err, nil)
	}

	role := req.Role
	if role == "" {
		role = "Admin"
	}
	admin := adminModel.AdminModel{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		SchoolName: req.SchoolName,
	}

	var primaryDone bool
	err := dualwrite.New().
		Then(dualwrite.Step{
			Name: "mongo insert",
			Do: func(ctx context.Context) error {
				res, err := ctl.col().InsertOne(ctx, admin)
				if err != nil {
					return err
				}
				admin.ID = res.InsertedID.(primitive.ObjectID)
				primaryDone = true
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := ctl.col().DeleteOne(ctx, bson.M{"_id": admin.ID})
				return err
			},
		}).
		Then(dualwrite.Step{
			Name: "mysql insert",
			Do: func(ctx context.Context) error {
				row := adminModel.AdminRow{
					Name:       admin.Name,
					Email:      admin.Email,
					Password:   admin.Password,
					Role:       admin.Role,
					SchoolName: admin.SchoolName,
				}
				return ctl.DB.WithContext(ctx).Create(&row).Error
			},
		}).
		Run(ctx)
	if err != nil {
		if primaryDone {
			// mirror insert failed; the document has been deleted again
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Registration failed", err)
		}
		return helper.ServerError(c, "Internal Server Error", err, nil)
	}

	return c.Status(fiber.StatusOK).JSON(adminDTO.FromAdminModel(admin, nil))
}

/* =========================================================
   LOGIN
   POST /AdminLogin
   ========================================================= */
func (ctl *AdminController) Login(c *fiber.Ctx) error {
	var req adminDTO.LoginAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Email and password are required")
	}

	ctx := c.Context()

	var admin adminModel.AdminModel
	mongoErr := ctl.col().FindOne(ctx, bson.M{"email": req.Email}).Decode(&admin)

	// the account must exist in both stores to log in
	_, sqlErr := ctl.Resolve.AdminID(ctx, req.Email)

	if errors.Is(mongoErr, mongo.ErrNoDocuments) || errors.Is(sqlErr, resolver.ErrNotFound) {
		log.Println("Admin not found in one or both databases")
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if mongoErr != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", mongoErr)
	}
	if sqlErr != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", sqlErr)
	}

	// admin passwords are compared in the clear; that is the stored shape
	if req.Password != admin.Password {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	return c.Status(fiber.StatusOK).JSON(adminDTO.FromAdminModel(admin, nil))
}

/* =========================================================
   DETAIL
   GET /Admin/:id
   ========================================================= */
func (ctl *AdminController) GetDetail(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Error fetching admin details", err)
	}

	ctx := c.Context()

	var admin adminModel.AdminModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Admin not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Error fetching admin details", err)
	}

	mysqlID, err := ctl.Resolve.AdminID(ctx, admin.Email)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			log.Printf("[WARN] Data inconsistency: Admin found in MongoDB but not in MySQL. ID: %s", oid.Hex())
			return helper.Error(c, fiber.StatusNotFound, "Admin data inconsistent across databases")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Error fetching admin details", err)
	}

	return c.Status(fiber.StatusOK).JSON(adminDTO.FromAdminModel(admin, &mysqlID))
}

/* =========================================================
   LIST
   GET /Admin
   ========================================================= */
func (ctl *AdminController) GetAll(c *fiber.Ctx) error {
	ctx := c.Context()

	cur, err := ctl.col().Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Error fetching all admins", err)
	}

	var admins []adminModel.AdminModel
	if err := cur.All(ctx, &admins); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Error fetching all admins", err)
	}
	if len(admins) == 0 {
		return helper.Error(c, fiber.StatusNotFound, "No admins found")
	}
	return c.Status(fiber.StatusOK).JSON(admins)
}
